package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanParticipateInPublicRaffle(t *testing.T) {
	tv := Prize{Name: "Pantalla 55"}
	car := Prize{Name: "Automovil"}
	carUpper := Prize{Name: "AUTOMOVIL"}

	tests := []struct {
		name  string
		guest Guest
		prize Prize
		want  bool
	}{
		{"INV company is excluded", Guest{Company: CompanyINV, Description: DescriptionGeneral}, tv, false},
		{"INV company is excluded from the car too", Guest{Company: CompanyINV}, car, false},
		{"previous winners are excluded", Guest{Company: "FXE", Description: DescriptionPreviousWinners}, tv, false},
		{"new hires are excluded", Guest{Company: "FXE", Description: DescriptionNewHire}, tv, false},
		{"directors are excluded", Guest{Company: "FXE", Description: DescriptionDirectors}, tv, false},
		{"non participants are excluded", Guest{Company: "FXE", Description: DescriptionNoParticipation}, tv, false},
		{"IMEX cannot win the car", Guest{Company: CompanyIMEX, Description: DescriptionGeneral}, car, false},
		{"subdirectors cannot win the car", Guest{Company: "FXE", Description: DescriptionSubdirectors}, carUpper, false},
		{"IMEX can win other prizes", Guest{Company: CompanyIMEX, Description: DescriptionGeneral}, tv, true},
		{"subdirectors can win other prizes", Guest{Company: "FXE", Description: DescriptionSubdirectors}, tv, true},
		{"general guest can win the car", Guest{Company: "FXE", Description: DescriptionGeneral}, car, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanParticipateInPublicRaffle(tt.guest, tt.prize))
		})
	}
}

func TestCanParticipateInPublicRaffle_INVNeverEligible(t *testing.T) {
	prizes := []string{"Automovil", "automovil", "Bicicleta", "Rifa General", ""}
	descriptions := []string{DescriptionGeneral, DescriptionSubdirectors, DescriptionIMEX, ""}

	for _, p := range prizes {
		for _, d := range descriptions {
			g := Guest{Company: CompanyINV, Description: d}
			assert.False(t, CanParticipateInPublicRaffle(g, Prize{Name: p}), "prize %q description %q", p, d)
		}
	}
}

func TestCanParticipateInGeneralRaffle(t *testing.T) {
	tests := []struct {
		name     string
		guest    Guest
		attended bool
		want     bool
	}{
		{"no attendance", Guest{Company: "FXE", Description: DescriptionGeneral}, false, false},
		{"general attendee", Guest{Company: "FXE", Description: DescriptionGeneral}, true, true},
		{"subdirector attendee", Guest{Company: "FXE", Description: DescriptionSubdirectors}, true, true},
		{"IMEX description attendee", Guest{Company: CompanyIMEX, Description: DescriptionIMEX}, true, true},
		{"directors are not in the pool", Guest{Company: "FXE", Description: DescriptionDirectors}, true, false},
		{"empty description", Guest{Company: "FXE"}, true, false},
		{"INV company", Guest{Company: CompanyINV, Description: DescriptionGeneral}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanParticipateInGeneralRaffle(tt.guest, tt.attended))
		})
	}
}

func TestCanParticipate_DispatchesOnMode(t *testing.T) {
	g := Guest{Company: "FXE", Description: DescriptionNewHire}
	p := Prize{Name: "Bicicleta"}

	assert.False(t, CanParticipate(RaffleModePublic, g, p, true))

	g.Description = DescriptionGeneral
	assert.True(t, CanParticipate(RaffleModePublic, g, p, false))
	assert.False(t, CanParticipate(RaffleModeGeneral, g, p, false))
	assert.True(t, CanParticipate(RaffleModeGeneral, g, p, true))
}

func TestParseRaffleMode(t *testing.T) {
	m, err := ParseRaffleMode("")
	assert.NoError(t, err)
	assert.Equal(t, RaffleModePublic, m)

	m, err = ParseRaffleMode("general")
	assert.NoError(t, err)
	assert.Equal(t, RaffleModeGeneral, m)

	_, err = ParseRaffleMode("lottery")
	assert.ErrorIs(t, err, ErrInvalidRaffleMode)
}

func TestPrize_Mode(t *testing.T) {
	assert.Equal(t, RaffleModeGeneral, Prize{Name: " Rifa General "}.Mode())
	assert.Equal(t, RaffleModePublic, Prize{Name: "Automovil"}.Mode())
}
