package handler

import (
	"github.com/gorilla/mux"

	"github.com/bbstore/credit-service/internal/config"
	"github.com/bbstore/credit-service/internal/middleware"
)

// NewRouter wires all routes. Simulation and login are public; everything
// that reads or mutates customer data requires a JWT.
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/simulate", h.Simulate).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	authRouter.HandleFunc("/customers/{id:[0-9]+}", h.GetCustomer).Methods("GET")
	authRouter.HandleFunc("/customers/{id:[0-9]+}/tier", h.UpdateTier).Methods("PUT")
	authRouter.HandleFunc("/customers/{id:[0-9]+}/limit", h.UpdateLimit).Methods("PUT")
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans", h.ListLoans).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}", h.GetLoan).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/installments/{number:[0-9]+}/pay", h.PayInstallment).Methods("POST")
	authRouter.HandleFunc("/metrics", h.Metrics).Methods("GET")

	return r
}
