package main

import (
	"log"
	"net/http"
	"os"

	"github.com/assetkart/cp-backend/internal/auth"
	"github.com/assetkart/cp-backend/internal/commission"
	"github.com/assetkart/cp-backend/internal/investment"
	"github.com/assetkart/cp-backend/internal/partner"
	"github.com/assetkart/cp-backend/internal/property"
	"github.com/assetkart/cp-backend/internal/user"
	dbutil "github.com/assetkart/cp-backend/internal/utils/db"
	"github.com/assetkart/cp-backend/internal/wallet"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	db, err := dbutil.GetDB()
	if err != nil {
		log.Fatal("could not connect to database:", err)
	}

	if err := user.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := wallet.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := property.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := partner.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := investment.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}
	if err := commission.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}

	// Handlers
	userHandler := user.NewHandler(db)
	walletHandler := wallet.NewHandler(db)
	propertyHandler := property.NewHandler(db)
	partnerHandler := partner.NewHandler(db)
	investmentHandler := investment.NewHandler(db)
	commissionHandler := commission.NewHandler(db)

	// Router
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/properties", propertyHandler.List).Methods("GET")
	r.HandleFunc("/properties/{id}", propertyHandler.Get).Methods("GET")

	// Authenticated routes
	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)
	api.HandleFunc("/me", userHandler.Me).Methods("GET")
	api.HandleFunc("/wallet/fund", walletHandler.Fund).Methods("POST")
	api.HandleFunc("/wallet/balance", walletHandler.Balance).Methods("GET")
	api.HandleFunc("/wallet/transactions", walletHandler.Transactions).Methods("GET")
	api.HandleFunc("/investments", investmentHandler.Create).Methods("POST")
	api.HandleFunc("/investments", investmentHandler.ListMine).Methods("GET")
	api.HandleFunc("/investments/{id}", investmentHandler.Get).Methods("GET")
	api.HandleFunc("/partners/me/commissions", commissionHandler.MyCommissions).Methods("GET")

	// Admin routes
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, auth.RequireAdmin)
	admin.HandleFunc("/properties", propertyHandler.Create).Methods("POST")
	admin.HandleFunc("/partners", partnerHandler.Create).Methods("POST")
	admin.HandleFunc("/partners", partnerHandler.List).Methods("GET")
	admin.HandleFunc("/partners/{id}/rules", partnerHandler.AssignRule).Methods("POST")
	admin.HandleFunc("/partners/{id}/customers", partnerHandler.CreateRelation).Methods("POST")
	admin.HandleFunc("/commission-rules", partnerHandler.CreateRule).Methods("POST")
	admin.HandleFunc("/users/{id}/kyc", userHandler.UpdateKYC).Methods("POST")
	admin.HandleFunc("/investments", investmentHandler.List).Methods("GET")
	admin.HandleFunc("/investments/{id}/approve", investmentHandler.Approve).Methods("POST")
	admin.HandleFunc("/investments/{id}/reject", investmentHandler.Reject).Methods("POST")
	admin.HandleFunc("/investments/{id}/cancel", investmentHandler.Cancel).Methods("POST")
	admin.HandleFunc("/commissions", commissionHandler.List).Methods("GET")
	admin.HandleFunc("/commissions/{id}/approve", commissionHandler.Approve).Methods("POST")
	admin.HandleFunc("/commissions/{id}/payout", commissionHandler.Payout).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("server listening on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
