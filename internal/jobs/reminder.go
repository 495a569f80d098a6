// Package jobs runs the scheduled installment reminder sweep.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/bbstore/credit-service/internal/models"
	"github.com/bbstore/credit-service/internal/service"
)

// Installments due within this window get an upcoming-payment reminder.
const reminderWindow = 3 * 24 * time.Hour

// Mailer delivers installment reminders. Satisfied by email.Sender.
type Mailer interface {
	SendInstallmentReminder(to, name, productName string, number int, dueDate time.Time, amount float64, isOverdue bool) error
}

// Reminder scans active loans daily and mails customers about installments
// that are due soon or overdue.
type Reminder struct {
	store  service.Store
	sender Mailer
	log    *logrus.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewReminder creates the reminder job. Call Start to schedule it.
func NewReminder(store service.Store, sender Mailer, log *logrus.Logger) *Reminder {
	return &Reminder{
		store:  store,
		sender: sender,
		log:    log,
		cron:   cron.New(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules the daily sweep.
func (r *Reminder) Start() error {
	if _, err := r.cron.AddFunc("@daily", r.Sweep); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("Installment reminder job scheduled")
	return nil
}

// Stop halts the scheduler.
func (r *Reminder) Stop() {
	r.cron.Stop()
}

// Sweep mails one reminder per unpaid installment that is overdue or due
// within the reminder window. Send failures are logged and do not stop the
// sweep.
func (r *Reminder) Sweep() {
	loans, err := r.store.ListLoans(0)
	if err != nil {
		r.log.Errorf("Reminder sweep failed to list loans: %v", err)
		return
	}

	now := r.now()
	var sent int
	for _, loan := range loans {
		if loan.Status != models.LoanActive {
			continue
		}
		customer, err := r.store.FindCustomerByID(loan.CustomerID)
		if err != nil {
			r.log.Errorf("Reminder sweep failed to load customer %d: %v", loan.CustomerID, err)
			continue
		}
		for _, inst := range loan.Installments {
			if inst.Paid {
				continue
			}
			overdue := inst.DueDate.Before(now)
			if !overdue && inst.DueDate.Sub(now) > reminderWindow {
				continue
			}
			err := r.sender.SendInstallmentReminder(customer.Email, customer.Name,
				loan.ProductName, inst.Number, inst.DueDate, inst.Amount, overdue)
			if err != nil {
				continue
			}
			sent++
		}
	}
	r.log.Infof("Reminder sweep finished, %d emails sent", sent)
}
