package repository

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

func toJSON(m map[string]interface{}) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}

	return datatypes.JSON(b)
}

func fromJSON(j datatypes.JSON) map[string]interface{} {
	if len(j) == 0 {
		return nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(j, &m); err != nil {
		return nil
	}

	return m
}

func eventToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Name:        e.Name,
		Description: e.Description,
		EventDate:   e.EventDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.Location,
		Status:      e.Status,
		PublicToken: e.PublicToken,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Name:        e.Name,
		Description: e.Description,
		EventDate:   e.EventDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.Location,
		Status:      e.Status,
		PublicToken: e.PublicToken,
	}
}

func guestToDomain(g dao.Guest) domain.Guest {
	return domain.Guest{
		ID:             g.ID,
		EventID:        g.EventID,
		Company:        g.Company,
		EmployeeNumber: g.EmployeeNumber,
		FullName:       g.FullName,
		Email:          g.Email,
		WorkArea:       g.WorkArea,
		JobLevel:       g.JobLevel,
		Location:       g.Location,
		HireDate:       g.HireDate,
		Description:    g.Description,
		RaffleCategory: g.RaffleCategory,
		QRCode:         g.QRCode,
		EmailSent:      g.EmailSent,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func guestPtrToDomain(g *dao.Guest) *domain.Guest {
	if g == nil {
		return nil
	}

	out := guestToDomain(*g)
	return &out
}

func guestToDAO(g domain.Guest) dao.Guest {
	return dao.Guest{
		ID:             g.ID,
		EventID:        g.EventID,
		Company:        g.Company,
		EmployeeNumber: g.EmployeeNumber,
		FullName:       g.FullName,
		Email:          g.Email,
		WorkArea:       g.WorkArea,
		JobLevel:       g.JobLevel,
		Location:       g.Location,
		HireDate:       g.HireDate,
		Description:    g.Description,
		RaffleCategory: g.RaffleCategory,
		QRCode:         g.QRCode,
		EmailSent:      g.EmailSent,
	}
}

func prizeToDomain(p dao.Prize) domain.Prize {
	return domain.Prize{
		ID:           p.ID,
		EventID:      p.EventID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Stock:        p.Stock,
		InitialStock: p.InitialStock,
		Value:        p.Value,
		Image:        p.Image,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func prizeToDAO(p domain.Prize) dao.Prize {
	return dao.Prize{
		ID:           p.ID,
		EventID:      p.EventID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Stock:        p.Stock,
		InitialStock: p.InitialStock,
		Value:        p.Value,
		Image:        p.Image,
		Active:       p.Active,
	}
}

func attendanceToDomain(a dao.Attendance) domain.Attendance {
	return domain.Attendance{
		ID:            a.ID,
		EventID:       a.EventID,
		GuestID:       a.GuestID,
		ScannedAt:     a.ScannedAt,
		ScannedBy:     a.ScannedBy,
		ScanCount:     a.ScanCount,
		LastScannedAt: a.LastScannedAt,
		ScanMetadata:  fromJSON(a.ScanMetadata),
		Guest:         guestPtrToDomain(a.Guest),
	}
}

func entryToDomain(e dao.RaffleEntry) domain.RaffleEntry {
	return domain.RaffleEntry{
		ID:             e.ID,
		EventID:        e.EventID,
		GuestID:        e.GuestID,
		PrizeID:        e.PrizeID,
		Status:         domain.EntryStatus(e.Status),
		Position:       e.Position,
		ParticipatedAt: e.ParticipatedAt,
		DrawnAt:        e.DrawnAt,
		PrizeDelivered: e.PrizeDelivered,
		DeliveredAt:    e.DeliveredAt,
		DeliveredBy:    e.DeliveredBy,
		Metadata:       fromJSON(e.Metadata),
		Guest:          guestPtrToDomain(e.Guest),
		CreatedAt:      e.CreatedAt,
	}
}

func entryToDAO(e domain.RaffleEntry) dao.RaffleEntry {
	return dao.RaffleEntry{
		ID:             e.ID,
		EventID:        e.EventID,
		GuestID:        e.GuestID,
		PrizeID:        e.PrizeID,
		Status:         string(e.Status),
		Position:       e.Position,
		ParticipatedAt: e.ParticipatedAt,
		DrawnAt:        e.DrawnAt,
		PrizeDelivered: e.PrizeDelivered,
		DeliveredAt:    e.DeliveredAt,
		DeliveredBy:    e.DeliveredBy,
		Metadata:       toJSON(e.Metadata),
	}
}

func raffleLogToDomain(l dao.RaffleLog) domain.RaffleLog {
	out := domain.RaffleLog{
		ID:         l.ID,
		DrawID:     l.DrawID,
		EventID:    l.EventID,
		UserID:     l.UserID,
		PrizeID:    l.PrizeID,
		GuestID:    l.GuestID,
		EntryID:    l.EntryID,
		RaffleType: l.RaffleType,
		Seed:       l.Seed,
		Candidates: l.Candidates,
		Confirmed:  l.Confirmed,
		CreatedAt:  l.CreatedAt,
		Guest:      guestPtrToDomain(l.Guest),
	}
	if l.Prize != nil {
		p := prizeToDomain(*l.Prize)
		out.Prize = &p
	}

	return out
}

func auditLogToDomain(l dao.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		ID:          l.ID,
		UserID:      l.UserID,
		EventID:     l.EventID,
		Action:      l.Action,
		Model:       l.Model,
		ModelID:     l.ModelID,
		Description: l.Description,
		OldValues:   fromJSON(l.OldValues),
		NewValues:   fromJSON(l.NewValues),
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		CreatedAt:   l.CreatedAt,
	}
}
