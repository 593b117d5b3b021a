package constant

// Chat roles (shared between session history and LLM messages)
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// In-band control phrases. Exact string equality after trimming; there is
// no other command syntax.
const (
	ManualModeOnPhrase  = "人工客服您好"
	ManualModeOffPhrase = "人工客服結束"
)

// ReplyMarker is the identity prefix required on every machine-generated
// reply. Downstream transcript consumers rely on it to tell bot replies
// from human-operator replies.
const ReplyMarker = "亞鈺智能客服您好："

// FallbackReply is sent when neither retrieval tier yields usable context,
// or when the completion call fails.
const FallbackReply = ReplyMarker + "感謝您的詢問，目前您的問題需要專人回覆您，請稍後馬上有人為您服務！😄"

// Default acknowledgements for the control phrases. Configurable; an empty
// value means the transition happens silently.
const (
	ManualModeOnAck  = ReplyMarker + "已為您轉接專人客服，請直接留言，稍後將由客服人員親自回覆您。"
	ManualModeOffAck = ReplyMarker + "已結束專人客服，智能客服將繼續為您服務！😄"
)

// PrimarySystemPrompt frames answers grounded on semantically retrieved
// knowledge snippets.
const PrimarySystemPrompt = "你是亞鈺汽車的50年資深客服專員，擅長解決問題且擅長思考拆解問題，" +
	"請先透過參考資料判斷並解析問題點，只詢問參考資料需要的問題，" +
	"不要問不相關參考資料的問題，如果詢問內容不在參考資料內，請先判斷這句話是什麼類型的問題，" +
	"然後針對參考資料內的資料做反問問題，最後問到需要的答案，請用最積極與充滿溫度的方式回答，" +
	"若參考資料與問題無關，比如他是來聊天的，請回覆罐頭訊息：\"感謝您的詢問，請詢問亞鈺汽車相關問題，我們很高興為您服務！😄\""

// StructuredSystemPrompt is used when the context comes from the vehicle
// listing database rather than semantic search. It discloses the data
// source so the model does not over-claim knowledge beyond the listed fields.
const StructuredSystemPrompt = "你是亞鈺汽車的50年資深客服專員。以下參考資料來自車輛資料庫的逐欄位紀錄，" +
	"並非客服知識庫，請僅根據列出的欄位內容回答，不要推測未列出的資訊；" +
	"若資料不足以回答，請誠實告知並引導客戶提供更多條件（如品牌、車款、年份或預算），" +
	"請用最積極與充滿溫度的方式回答。"

// Routing defaults. Operator-tunable via environment configuration.
const (
	DefaultTopK           = 5
	DefaultScoreThreshold = 0.2
	DefaultHistoryLimit   = 10
)
