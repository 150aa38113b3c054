package domain

import "strings"

const automobilePrizeName = "automovil"

var publicExcludedDescriptions = map[string]struct{}{
	DescriptionPreviousWinners: {},
	DescriptionNewHire:         {},
	DescriptionDirectors:       {},
	DescriptionNoParticipation: {},
}

var generalAllowedDescriptions = map[string]struct{}{
	DescriptionGeneral:      {},
	DescriptionSubdirectors: {},
	DescriptionIMEX:         {},
}

// CanParticipateInPublicRaffle reports whether the guest may hold an entry for the prize's public raffle.
func CanParticipateInPublicRaffle(g Guest, p Prize) bool {
	if g.Company == CompanyINV {
		return false
	}

	if _, excluded := publicExcludedDescriptions[g.Description]; excluded {
		return false
	}

	if strings.ToLower(p.Name) == automobilePrizeName {
		if g.Company == CompanyIMEX || g.Description == DescriptionSubdirectors {
			return false
		}
	}

	return true
}

// CanParticipateInGeneralRaffle reports whether the guest may enter the general pool.
// attended must reflect whether the guest has a recorded attendance for the event.
func CanParticipateInGeneralRaffle(g Guest, attended bool) bool {
	if !attended {
		return false
	}

	if _, ok := generalAllowedDescriptions[g.Description]; !ok {
		return false
	}

	return g.Company != CompanyINV
}

// CanParticipate applies the predicate of the given mode.
func CanParticipate(mode RaffleMode, g Guest, p Prize, attended bool) bool {
	if mode == RaffleModeGeneral {
		return CanParticipateInGeneralRaffle(g, attended)
	}
	return CanParticipateInPublicRaffle(g, p)
}
