package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/bbstore/credit-service/internal/models"
	"github.com/bbstore/credit-service/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrLimitExceeded):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// Register handles customer registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		CPF         string  `json:"cpf"`
		Phone       string  `json:"phone"`
		Password    string  `json:"password"`
		Income      float64 `json:"income"`
		Address     string  `json:"address"`
		CreditLimit float64 `json:"credit_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := h.svc.CreateCustomer(service.CreateCustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		CPF:         req.CPF,
		Phone:       req.Phone,
		Password:    req.Password,
		Income:      req.Income,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// Login handles customer authentication by email or CPF
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, customer, err := h.svc.Login(req.Identifier, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"customer": customer,
	})
}

// Simulate handles what-if installment quotes
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}
	months, err := strconv.Atoi(r.URL.Query().Get("months"))
	if err != nil {
		http.Error(w, "Invalid months", http.StatusBadRequest)
		return
	}
	tier := models.Tier(r.URL.Query().Get("tier"))

	sim, err := h.svc.Simulate(amount, months, tier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

// ListCustomers handles the customer listing
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer handles a single customer lookup
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer id", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.GetCustomer(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateTier handles customer tier changes
func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer id", http.StatusBadRequest)
		return
	}
	var req struct {
		Tier models.Tier `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.UpdateTier(id, req.Tier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateLimit handles customer credit limit changes
func (h *Handler) UpdateLimit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid customer id", http.StatusBadRequest)
		return
	}
	var req struct {
		CreditLimit float64 `json:"credit_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	customer, err := h.svc.UpdateLimit(id, req.CreditLimit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// CreateLoan handles loan creation
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID  int64   `json:"customer_id"`
		ProductName string  `json:"product_name"`
		Amount      float64 `json:"amount"`
		Months      int     `json:"months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loan, err := h.svc.CreateLoan(req.CustomerID, req.ProductName, req.Amount, req.Months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// ListLoans handles loan listing, optionally filtered by customer_id
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var customerID int64
	if v := r.URL.Query().Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid customer_id", http.StatusBadRequest)
			return
		}
		customerID = id
	}

	loans, err := h.svc.ListLoans(customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// GetLoan handles a single loan lookup
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid loan id", http.StatusBadRequest)
		return
	}
	loan, err := h.svc.GetLoan(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// PayInstallment handles installment payment
func (h *Handler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid loan id", http.StatusBadRequest)
		return
	}
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		http.Error(w, "Invalid installment number", http.StatusBadRequest)
		return
	}

	if err := h.svc.PayInstallment(loanID, number); err != nil {
		h.writeError(w, err)
		return
	}

	loan, err := h.svc.GetLoan(loanID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// Metrics handles the store metrics dashboard data
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.svc.Metrics()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
