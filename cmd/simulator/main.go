package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// BookingRequest mirrors the public booking widget payload
type BookingRequest struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Area    string `json:"area"`
}

// Requirement is one line of a corporate lead
type Requirement struct {
	Type  string `json:"type"`
	Units int    `json:"units"`
}

// InquiryRequest mirrors the corporate-lead form payload
type InquiryRequest struct {
	CompanyName   string        `json:"companyName"`
	ContactPerson string        `json:"contactPerson"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email,omitempty"`
	Requirements  []Requirement `json:"requirements"`
	Notes         string        `json:"notes,omitempty"`
}

var (
	services  = []string{"AC Repair", "AC Installation", "Gas Refill", "Deep Cleaning", "AMC"}
	slots     = []string{"09:00 AM", "11:00 AM", "01:00 PM", "03:00 PM", "05:00 PM"}
	areas     = []string{"Koramangala", "Indiranagar", "Whitefield", "Jayanagar", "HSR Layout", "Electronic City"}
	names     = []string{"Asha Rao", "Ravi Kumar", "Meera Iyer", "Arjun Shetty", "Priya Nair", "Karthik Reddy"}
	companies = []string{"Prestige Offices", "Brigade Tech Park", "Lotus Hospitals", "Green Leaf Hotels"}
	prices    = map[string]float64{
		"AC Repair":       799,
		"AC Installation": 1499,
		"Gas Refill":      2499,
		"Deep Cleaning":   599,
		"AMC":             3999,
	}
)

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func randomPhone() string {
	return strconv.Itoa(6+rand.Intn(4)) + fmt.Sprintf("%09d", rand.Intn(1_000_000_000))
}

func randomBooking(now time.Time) BookingRequest {
	return BookingRequest{
		Service: pick(services),
		Date:    now.AddDate(0, 0, 1+rand.Intn(7)).Format("2006-01-02"),
		Time:    pick(slots),
		Name:    pick(names),
		Phone:   randomPhone(),
		Area:    pick(areas),
	}
}

func randomInquiry() InquiryRequest {
	return InquiryRequest{
		CompanyName:   pick(companies),
		ContactPerson: pick(names),
		Phone:         randomPhone(),
		Requirements: []Requirement{
			{Type: "AMC", Units: 5 + rand.Intn(50)},
			{Type: "Deep Cleaning", Units: 1 + rand.Intn(20)},
		},
		Notes: "Generated by simulator",
	}
}

// Simulator drives the public API and, with an admin token, the admin API
type Simulator struct {
	apiURL     string
	adminToken string
	client     *http.Client

	// bookings awaiting a status change
	open []trackedBooking
}

type trackedBooking struct {
	ID      string
	Service string
	Status  string
}

// NewSimulator creates a simulator against apiURL
func NewSimulator(apiURL, adminToken string) *Simulator {
	return &Simulator{
		apiURL:     apiURL,
		adminToken: adminToken,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Simulator) send(ctx context.Context, method, path string, body interface{}, authorized bool) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.apiURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized && s.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.adminToken)
	}
	return s.client.Do(req)
}

func decodeID(resp *http.Response) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("missing id in response")
	}
	return result.ID, nil
}

// CreateBooking posts a guest booking and starts tracking it
func (s *Simulator) CreateBooking(ctx context.Context, booking BookingRequest) (string, error) {
	resp, err := s.send(ctx, http.MethodPost, "/bookings", booking, false)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("booking creation failed with status: %d", resp.StatusCode)
	}
	id, err := decodeID(resp)
	if err != nil {
		return "", err
	}

	s.open = append(s.open, trackedBooking{ID: id, Service: booking.Service, Status: "Pending"})
	log.WithFields(log.Fields{
		"booking_id": id,
		"service":    booking.Service,
		"area":       booking.Area,
	}).Info("Created booking")
	return id, nil
}

// CreateInquiry posts a corporate lead
func (s *Simulator) CreateInquiry(ctx context.Context, inquiry InquiryRequest) (string, error) {
	resp, err := s.send(ctx, http.MethodPost, "/bookings/corporate-lead", inquiry, false)
	if err != nil {
		return "", fmt.Errorf("failed to create inquiry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("inquiry creation failed with status: %d", resp.StatusCode)
	}
	id, err := decodeID(resp)
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"inquiry_id": id, "company": inquiry.CompanyName}).Info("Created corporate inquiry")
	return id, nil
}

// nextStatus moves Pending to Confirmed, and Confirmed to Completed or
// occasionally Cancelled.
func nextStatus(current string, roll float64) string {
	switch current {
	case "Pending":
		if roll < 0.1 {
			return "Cancelled"
		}
		return "Confirmed"
	case "Confirmed":
		if roll < 0.1 {
			return "Cancelled"
		}
		return "Completed"
	default:
		return ""
	}
}

// AdvanceOne progresses the oldest open booking by one step. It needs an admin token.
func (s *Simulator) AdvanceOne(ctx context.Context) error {
	if s.adminToken == "" || len(s.open) == 0 {
		return nil
	}

	booking := s.open[0]
	status := nextStatus(booking.Status, rand.Float64())
	body := map[string]interface{}{"status": status}
	if status == "Completed" {
		body["cost"] = prices[booking.Service]
	}

	resp, err := s.send(ctx, http.MethodPatch, "/bookings/"+booking.ID+"/status", body, true)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status update failed with status: %d", resp.StatusCode)
	}

	log.WithFields(log.Fields{"booking_id": booking.ID, "status": status}).Info("Advanced booking")
	if status == "Confirmed" {
		s.open[0].Status = status
		// confirmed bookings go to the back of the queue
		s.open = append(s.open[1:], s.open[0])
		return nil
	}
	s.open = s.open[1:]
	return nil
}

// Tick runs one simulation step
func (s *Simulator) Tick(ctx context.Context, step int) {
	if _, err := s.CreateBooking(ctx, randomBooking(time.Now())); err != nil {
		log.WithError(err).Error("Failed to create booking")
	}
	if step%5 == 0 {
		if _, err := s.CreateInquiry(ctx, randomInquiry()); err != nil {
			log.WithError(err).Error("Failed to create inquiry")
		}
	}
	if err := s.AdvanceOne(ctx); err != nil {
		log.WithError(err).Error("Failed to advance booking")
	}
}

func main() {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5000/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	steps := 0
	if v := os.Getenv("SIM_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			steps = n
		}
	}

	sim := NewSimulator(apiURL, os.Getenv("SIM_ADMIN_TOKEN"))
	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"interval": interval,
		"admin":    sim.adminToken != "",
		"steps":    steps,
	}).Info("Starting booking simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for step := 1; steps == 0 || step <= steps; step++ {
		sim.Tick(ctx, step)
		select {
		case <-ctx.Done():
			log.Info("Simulation stopped")
			return
		case <-ticker.C:
		}
	}
	log.WithField("steps", steps).Info("Simulation finished")
}
