package main

import (
	"log"
	"os"
	"time"

	"car-support-be/internal/model"
	"car-support-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a starter set of vehicle listings so the structured fallback
// tier has data in fresh environments.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	listings := []model.VehicleListing{
		{
			Id: uuid.New(), Brand: "Toyota", Model: "Altis", Year: 2019,
			PriceWan: 45, MileageKm: 68000, Transmission: "自排", FuelType: "汽油",
			Seats: 5, Color: "白色", Description: "一手車，原廠保養", Available: true,
		},
		{
			Id: uuid.New(), Brand: "Honda", Model: "CR-V", Year: 2020,
			PriceWan: 78, MileageKm: 42000, Transmission: "自排", FuelType: "汽油",
			Seats: 5, Color: "灰色", Description: "頂級版，全景天窗", Available: true,
		},
		{
			Id: uuid.New(), Brand: "Nissan", Model: "Serena", Year: 2018,
			PriceWan: 62, MileageKm: 85000, Transmission: "自排", FuelType: "油電",
			Seats: 7, Color: "黑色", Description: "七人座家庭用車", Available: true,
		},
		{
			Id: uuid.New(), Brand: "Mazda", Model: "Mazda3", Year: 2021,
			PriceWan: 66, MileageKm: 23000, Transmission: "自排", FuelType: "汽油",
			Seats: 5, Color: "紅色", Description: "低里程，近新車", Available: true,
		},
		{
			Id: uuid.New(), Brand: "Tesla", Model: "Model 3", Year: 2022,
			PriceWan: 120, MileageKm: 15000, Transmission: "單速", FuelType: "電動",
			Seats: 5, Color: "白色", Description: "長續航版", Available: false,
		},
	}

	for i := range listings {
		listings[i].CreatedAt = time.Now()
		if err := db.Create(&listings[i]).Error; err != nil {
			log.Printf("Warn: failed to insert %s %s: %v", listings[i].Brand, listings[i].Model, err)
		}
	}

	log.Printf("✅ Seeded %d vehicle listings.", len(listings))
}
