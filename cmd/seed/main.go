// Команда seed наполняет базу портала демонстрационными данными.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"portalserver/database"
)

// Типовой каталог продукции дорожной безопасности
var catalog = []struct {
	name     string
	subtypes []string
	unit     string
}{
	{"Metal Beam Crash Barrier", []string{"W-Beam", "Thrie-Beam"}, "meter"},
	{"Road Signage", []string{"Regulatory", "Warning", "Informatory"}, "piece"},
	{"Crash Cushion", []string{"Redirective", "Non-Redirective"}, "unit"},
	{"Solar Road Stud", []string{"Aluminium", "Plastic"}, "piece"},
	{"Thermoplastic Road Marking Paint", []string{"White", "Yellow"}, "kg"},
}

var cities = []string{
	"Chennai", "Hyderabad", "Mumbai", "Pune", "Bengaluru", "Ahmedabad", "Nagpur",
}

func main() {
	dbPath := flag.String("db", "portal.db", "path to the portal database")
	seed := flag.Int64("seed", 0, "random seed, 0 means random")
	orders := flag.Int("orders", 20, "number of orders to create")
	tasks := flag.Int("tasks", 15, "number of tasks to create")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	db, err := database.Open(*dbPath, database.DefaultDBConfig())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	productDB, err := database.NewProductDB(db)
	if err != nil {
		log.Fatal(err)
	}
	manufacturerDB, err := database.NewManufacturerDB(db)
	if err != nil {
		log.Fatal(err)
	}
	orderDB, err := database.NewOrderDB(db)
	if err != nil {
		log.Fatal(err)
	}
	taskDB, err := database.NewTaskDB(db)
	if err != nil {
		log.Fatal(err)
	}
	userDB, err := database.NewUserDB(db)
	if err != nil {
		log.Fatal(err)
	}

	// Продукция
	for _, item := range catalog {
		product := &database.Product{
			ID:       uuid.New().String(),
			Name:     item.name,
			Subtypes: item.subtypes,
			Unit:     item.unit,
			Notes:    gofakeit.Sentence(8),
		}
		if err := productDB.Create(ctx, product); err != nil {
			log.Fatalf("failed to seed product: %v", err)
		}
	}
	log.Printf("seeded %d products", len(catalog))

	// Производители
	manufacturerNames := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		name := gofakeit.Company()
		manufacturerNames = append(manufacturerNames, name)

		offered := []database.Offer{}
		for _, item := range catalog {
			if gofakeit.Bool() {
				offered = append(offered, database.Offer{
					ProductType: item.name,
					Price:       gofakeit.Price(500, 25000),
				})
			}
		}
		if len(offered) == 0 {
			offered = append(offered, database.Offer{
				ProductType: catalog[0].name,
				Price:       gofakeit.Price(500, 25000),
			})
		}

		manufacturer := &database.Manufacturer{
			ID:              uuid.New().String(),
			Name:            name,
			Location:        gofakeit.RandomString(cities),
			Contact:         gofakeit.Phone(),
			ProductsOffered: offered,
		}
		if err := manufacturerDB.Create(ctx, manufacturer); err != nil {
			log.Fatalf("failed to seed manufacturer: %v", err)
		}
	}
	log.Printf("seeded %d manufacturers", len(manufacturerNames))

	// Заказы
	for i := 0; i < *orders; i++ {
		item := catalog[gofakeit.Number(0, len(catalog)-1)]
		material := gofakeit.Price(50000, 2000000)
		transport := gofakeit.Price(5000, 150000)

		order := &database.Order{
			ID:            uuid.New().String(),
			Manufacturer:  gofakeit.RandomString(manufacturerNames),
			Product:       item.name,
			ProductType:   gofakeit.RandomString(item.subtypes),
			Quantity:      float64(gofakeit.Number(10, 500)),
			FromLocation:  gofakeit.RandomString(cities),
			ToLocation:    gofakeit.RandomString(cities),
			MaterialCost:  material,
			TransportCost: transport,
			TotalCost:     material + transport,
			Status:        gofakeit.RandomString([]string{
				database.OrderStatusPending,
				database.OrderStatusConfirmed,
				database.OrderStatusShipped,
				database.OrderStatusDelivered,
			}),
		}
		if err := orderDB.Create(ctx, order); err != nil {
			log.Fatalf("failed to seed order: %v", err)
		}
	}
	log.Printf("seeded %d orders", *orders)

	// Задачи
	for i := 0; i < *tasks; i++ {
		task := &database.Task{
			ID:         uuid.New().String(),
			AssignedTo: gofakeit.Name(),
			TaskDate:   time.Now().AddDate(0, 0, gofakeit.Number(-5, 20)),
			TaskText: fmt.Sprintf("%s\n%s",
				gofakeit.Sentence(5), gofakeit.Paragraph(1, 2, 8, " ")),
			Done: gofakeit.Bool(),
		}
		if err := taskDB.Create(ctx, task); err != nil {
			log.Fatalf("failed to seed task: %v", err)
		}
	}
	log.Printf("seeded %d tasks", *tasks)

	// Демо-пользователь
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	user := &database.User{
		ID:           uuid.New().String(),
		Username:     "demo",
		PasswordHash: string(hash),
		DisplayName:  "Demo User",
		Role:         database.RoleEmployee,
	}
	if err := userDB.Create(ctx, user); err != nil {
		log.Printf("demo user not created (may already exist): %v", err)
	} else {
		log.Printf("seeded demo user (demo / demo1234)")
	}
}
