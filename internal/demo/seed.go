// Package demo loads a small clinic scenario into the in-memory stores
// so the API is drivable out of the box.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/slimfitai/clinic-platform/internal/messaging"
	"github.com/slimfitai/clinic-platform/internal/patients"
	"github.com/slimfitai/clinic-platform/internal/scheduling"
	"github.com/slimfitai/clinic-platform/internal/waitlist"
	"github.com/slimfitai/clinic-platform/pkg/logging"
)

func intPtr(v int) *int { return &v }

// Seed loads demo patients, appointments, waitlist entries and chat
// sessions. It is meant for a fresh set of stores at startup.
func Seed(ctx context.Context, patientRepo patients.Repository, apptRepo scheduling.Repository, waitlistRepo waitlist.Repository, sessions *messaging.SessionStore, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}

	seedPatients := []*patients.Patient{
		{ID: "p1", Name: "Ricardo Oliveira", Phone: "5511999999999", History: patients.History{TotalAppointments: 12, NoShows: 4, LastVisit: "2023-10-10"}, TrustScore: intPtr(40)},
		{ID: "p2", Name: "Fernanda Silva", Phone: "5511888888888", History: patients.History{TotalAppointments: 5, NoShows: 0, LastVisit: "2023-11-20"}, TrustScore: intPtr(95)},
		{ID: "p3", Name: "João Santos", Phone: "5511777777777", History: patients.History{TotalAppointments: 2, NoShows: 1, LastVisit: "2023-01-15"}, TrustScore: intPtr(60)},
		{ID: "p4", Name: "Amanda Costa", Phone: "5511666666666", History: patients.History{TotalAppointments: 8, NoShows: 3, LastVisit: "2023-12-01"}, TrustScore: intPtr(50)},
		{ID: "p5", Name: "Carlos Mendes", Phone: "11 91234-5678", History: patients.History{TotalAppointments: 1, NoShows: 0, LastVisit: "2023-09-10"}},
		{ID: "p6", Name: "Mariana Souza", Phone: "11 92345-6789", History: patients.History{TotalAppointments: 8, NoShows: 0, LastVisit: "2023-11-01"}},
		{ID: "p7", Name: "Roberto Lima", Phone: "11 93456-7890", History: patients.History{TotalAppointments: 3, NoShows: 1, LastVisit: "2023-08-20"}},
	}
	for _, p := range seedPatients {
		if _, err := patientRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("demo: seed patient %s: %w", p.Name, err)
		}
	}

	appts := []*scheduling.Appointment{
		{
			ID: "1", PatientID: "p1", PatientName: "Ricardo Oliveira",
			Service: "Limpeza Dental", Date: "Hoje", Time: "14:30", Duration: 30,
			Status: scheduling.StatusConfirmed, AttendanceStatus: scheduling.AttendanceUserDeclared,
			RiskScore: intPtr(85), AIAnalysis: "Paciente informou que vem, mas tem histórico de faltas.",
			QRCodeHash: "slimfit-valid:1",
		},
		{
			ID: "2", PatientID: "p2", PatientName: "Fernanda Silva",
			Service: "Avaliação Ortodontia", Date: "Hoje", Time: "15:45", Duration: 45,
			Status: scheduling.StatusConfirmed, AttendanceStatus: scheduling.AttendanceVerified,
			RiskScore: intPtr(10), AIAnalysis: "Paciente pontual.",
			QRCodeHash: "slimfit-valid:2",
			ValidationLog: &scheduling.ValidationLog{
				ValidatedAt: time.Now().UTC(),
				Method:      scheduling.MethodQR,
				ValidatedBy: "Self Check-in",
			},
		},
	}
	for _, a := range appts {
		if _, err := apptRepo.Create(ctx, a); err != nil {
			return fmt.Errorf("demo: seed appointment %s: %w", a.ID, err)
		}
	}

	entries := []*waitlist.Entry{
		{ID: "w1", PatientID: "p5", PatientName: "Carlos Mendes", DesiredService: "Limpeza", AvailableDays: []string{"Seg", "Qua"}, PriorityScore: 85},
		{ID: "w2", PatientID: "p6", PatientName: "Mariana Souza", DesiredService: "Avaliação", AvailableDays: []string{"Qualquer dia"}, PriorityScore: 92},
		{ID: "w3", PatientID: "p7", PatientName: "Roberto Lima", DesiredService: "Manutenção", AvailableDays: []string{"Sex", "Sab"}, PriorityScore: 60},
	}
	for _, e := range entries {
		if _, err := waitlistRepo.Create(ctx, e); err != nil {
			return fmt.Errorf("demo: seed waitlist entry %s: %w", e.ID, err)
		}
	}

	if err := seedChats(ctx, sessions); err != nil {
		return err
	}

	logger.Info("demo data seeded",
		"patients", len(seedPatients),
		"appointments", len(appts),
		"waitlist", len(entries),
	)
	return nil
}

func seedChats(ctx context.Context, sessions *messaging.SessionStore) error {
	chats := []struct {
		session  messaging.ChatSession
		messages []messaging.Message
	}{
		{
			session: messaging.ChatSession{ID: "c1", PatientID: "p2", PatientName: "Fernanda Silva", PatientPhone: "11 99999-9999"},
			messages: []messaging.Message{
				{Sender: messaging.SenderAI, Text: "Olá Fernanda, aqui é da SlimFit. Confirmamos sua consulta amanhã às 15:45?", Status: messaging.StatusRead},
				{Sender: messaging.SenderUser, Text: "Oi! Vou confirmar minha presença sim.", Status: messaging.StatusRead},
			},
		},
		{
			session: messaging.ChatSession{ID: "c2", PatientID: "p1", PatientName: "Ricardo Oliveira", PatientPhone: "11 88888-8888"},
			messages: []messaging.Message{
				{Sender: messaging.SenderAI, Text: "Olá Ricardo. Notamos que seu horário é hoje às 14:30. Tudo certo para comparecer?", Status: messaging.StatusRead},
				{Sender: messaging.SenderUser, Text: "Putz, surgiu um imprevisto. Acho que vou precisar remarcar...", Status: messaging.StatusRead},
			},
		},
	}

	for _, c := range chats {
		created, err := sessions.Create(ctx, &c.session)
		if err != nil {
			return fmt.Errorf("demo: seed chat %s: %w", c.session.ID, err)
		}
		for _, m := range c.messages {
			if _, err := sessions.AppendMessage(ctx, created.ID, m); err != nil {
				return fmt.Errorf("demo: seed chat message: %w", err)
			}
		}
	}
	return nil
}
