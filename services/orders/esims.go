package orders

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/providers/esimstore"
	"github.com/magicesim/storefront/services/format"
)

// ESIMs lists the caller's eSIMs with data and time left.
func (s *OrderService) ESIMs(ctx context.Context, rc models.RequestContext) ([]ESIMCard, error) {
	plans, err := s.source.ListUserPlans(ctx, rc)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cards := make([]ESIMCard, 0, len(plans))
	for _, p := range plans {
		cards = append(cards, s.esimCard(p, now))
	}
	return cards, nil
}

func (s *OrderService) esimCard(p esimstore.UserPlan, now time.Time) ESIMCard {
	var used int64
	if p.VolumeUsed != nil {
		used = *p.VolumeUsed
	}
	left := p.Volume - used
	if left < 0 {
		left = 0
	}
	pct := 0
	if p.Volume > 0 {
		pct = int(left * 100 / p.Volume)
	}

	card := ESIMCard{
		ID:            p.ID,
		OrderNo:       p.OrderNo,
		Name:          p.Name,
		ICCID:         p.ICCID,
		LocationName:  p.LocationName,
		Status:        p.ESIMStatus,
		BadgeClass:    format.ESIMStatusBadge(p.ESIMStatus),
		DataLeftLabel: format.ByteVolume(left),
		DataLeftPct:   pct,
	}
	if p.LocationCode != "" {
		card.FlagURL = fmt.Sprintf("%s/%s.png", s.flagCDNURL, strings.ToLower(p.LocationCode))
	}

	if expiry, err := format.ParseTime(p.ExpiredTime); err == nil {
		card.TimeLeftLabel = format.DaysLeft(expiry, now)
		card.ExpiryLabel = format.Ordinal(expiry.In(s.location))
	} else if created, err := format.ParseTime(p.DateCreated); err == nil && p.Duration > 0 {
		remaining := format.Remaining(created, p.Duration, now)
		card.TimeLeftLabel = remaining.DurationLeft
		card.ExpiryLabel = format.Ordinal(remaining.ExpiresAt.In(s.location))
	} else {
		card.TimeLeftLabel = format.InvalidDate
		card.ExpiryLabel = format.InvalidDate
	}
	return card
}

// ProfileCard is the install view of one eSIM.
type ProfileCard struct {
	ICCID          string `json:"iccid"`
	QRCodeURL      string `json:"qr_code_url"`
	ActivationCode string `json:"activation_code"`
	Status         string `json:"status"`
	BadgeClass     string `json:"badge_class"`
	UsedLabel      string `json:"used_label"`
	TotalLabel     string `json:"total_label"`
	UsedPct        int    `json:"used_percent"`
	ExpiryLabel    string `json:"expiry_label"`
}

func (s *OrderService) Profile(ctx context.Context, rc models.RequestContext, iccid string) (ProfileCard, error) {
	iccid = strings.TrimSpace(iccid)
	if iccid == "" {
		return ProfileCard{}, models.NewAPIError(models.ErrorKindValidationFailure, http.StatusBadRequest, "iccid is required")
	}
	p, err := s.source.GetProfile(ctx, rc, iccid)
	if err != nil {
		return ProfileCard{}, err
	}

	card := ProfileCard{
		ICCID:          p.ICCID,
		QRCodeURL:      p.QRCodeURL,
		ActivationCode: p.ActivationCode,
		Status:         p.ESIMStatus,
		BadgeClass:     format.ESIMStatusBadge(p.ESIMStatus),
		UsedLabel:      format.ByteVolume(p.OrderUsage),
		TotalLabel:     format.ByteVolume(p.TotalVolume),
		ExpiryLabel:    format.OrdinalDateIn(p.ExpiredTime, s.location),
	}
	if p.TotalVolume > 0 {
		card.UsedPct = int(p.OrderUsage * 100 / p.TotalVolume)
	}
	return card, nil
}
