package promotion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type AudienceKind int

const (
	AudienceAll AudienceKind = iota
	AudienceNewClients
	AudienceBirthday
	AudienceTier
)

// Audience is the target group of a promotion. TierLevel is set only for AudienceTier.
type Audience struct {
	Kind      AudienceKind
	TierLevel int
}

func All() Audience        { return Audience{Kind: AudienceAll} }
func NewClients() Audience { return Audience{Kind: AudienceNewClients} }
func Birthday() Audience   { return Audience{Kind: AudienceBirthday} }
func Tier(level int) Audience {
	return Audience{Kind: AudienceTier, TierLevel: level}
}

func (a Audience) String() string {
	switch a.Kind {
	case AudienceNewClients:
		return "new_clients"
	case AudienceBirthday:
		return "birthday"
	case AudienceTier:
		return "tier:" + strconv.Itoa(a.TierLevel)
	default:
		return "all"
	}
}

var legacyTier = regexp.MustCompile(`^tier(?:[ _:]*level)?[ _:]*(\d+)$`)

// ParseAudience accepts the stored form ("all", "new_clients", "birthday", "tier:2")
// and the older labels written by the admin screens ("New Clients", "Tier Level 2").
func ParseAudience(s string) (Audience, error) {
	norm := strings.ToLower(strings.TrimSpace(s))

	switch norm {
	case "", "all":
		return All(), nil
	case "new_clients", "new clients", "new-clients":
		return NewClients(), nil
	case "birthday":
		return Birthday(), nil
	}

	if m := legacyTier.FindStringSubmatch(norm); m != nil {
		level, err := strconv.Atoi(m[1])
		if err == nil {
			return Tier(level), nil
		}
	}

	return Audience{}, fmt.Errorf("unknown promotion audience %q", s)
}
