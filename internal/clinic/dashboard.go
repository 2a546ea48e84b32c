// Package clinic aggregates operational KPIs across the live stores
// into the dashboard snapshot.
package clinic

import (
	"context"
	"fmt"
	"math"

	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/risk"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
)

// TierDistribution counts analyzed appointments per risk tier.
type TierDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Dashboard is the KPI snapshot served to the clinic front office.
type Dashboard struct {
	TotalAppointments    int              `json:"total_appointments"`
	AnalyzedAppointments int              `json:"analyzed_appointments"`
	TierDistribution     TierDistribution `json:"tier_distribution"`
	NoShowCount          int              `json:"no_show_count"`
	VerifiedCheckins     int              `json:"verified_checkins"`
	WaitlistSize         int              `json:"waitlist_size"`
	RecoveredSlots       int              `json:"recovered_slots"`
	ResponseRatePct      float64          `json:"response_rate_pct"`
}

type appointmentSource interface {
	List(ctx context.Context) ([]*scheduling.Appointment, error)
}

type waitlistSource interface {
	List(ctx context.Context) ([]*waitlist.Entry, error)
	MatchCount(ctx context.Context) int
}

type chatSource interface {
	List(ctx context.Context) ([]*messaging.ChatSession, error)
}

// DashboardService computes the snapshot on demand from the live
// stores. Nothing is cached; the stores are the source of truth.
type DashboardService struct {
	appts    appointmentSource
	waitlist waitlistSource
	chats    chatSource
}

// NewDashboardService wires the snapshot's sources.
func NewDashboardService(appts appointmentSource, wl waitlistSource, chats chatSource) *DashboardService {
	return &DashboardService{appts: appts, waitlist: wl, chats: chats}
}

// Snapshot computes the current KPI set.
func (s *DashboardService) Snapshot(ctx context.Context) (*Dashboard, error) {
	appts, err := s.appts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list appointments: %w", err)
	}

	d := &Dashboard{TotalAppointments: len(appts)}
	for _, a := range appts {
		if a.AttendanceStatus == scheduling.AttendanceNoShow {
			d.NoShowCount++
		}
		if a.Verified() {
			d.VerifiedCheckins++
		}
		if a.RiskScore == nil {
			continue
		}
		d.AnalyzedAppointments++
		switch risk.TierFromScore(*a.RiskScore) {
		case risk.TierHigh:
			d.TierDistribution.High++
		case risk.TierMedium:
			d.TierDistribution.Medium++
		default:
			d.TierDistribution.Low++
		}
	}

	entries, err := s.waitlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list waitlist: %w", err)
	}
	d.WaitlistSize = len(entries)
	d.RecoveredSlots = s.waitlist.MatchCount(ctx)

	sessions, err := s.chats.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("clinic: list chats: %w", err)
	}
	d.ResponseRatePct = responseRate(sessions)

	return d, nil
}

// responseRate is the share of active conversations the assistant has
// answered, in percent rounded to one decimal.
func responseRate(sessions []*messaging.ChatSession) float64 {
	asked, answered := 0, 0
	for _, sess := range sessions {
		hasUser, hasAI := false, false
		for _, m := range sess.Messages {
			switch m.Sender {
			case messaging.SenderUser:
				hasUser = true
			case messaging.SenderAI:
				hasAI = true
			}
		}
		if hasUser {
			asked++
			if hasAI {
				answered++
			}
		}
	}
	if asked == 0 {
		return 0
	}
	return math.Round(float64(answered)/float64(asked)*1000) / 10
}
