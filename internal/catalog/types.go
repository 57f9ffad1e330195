package catalog

// Monster is a fully identified monster with a fixed experience reward.
type Monster struct {
	Key         string   `json:"key" yaml:"key" validate:"required,entitykey"`
	Name        string   `json:"key_name" yaml:"key_name" validate:"required"`   // arch mage (lo)
	GameName    string   `json:"game_name" yaml:"game_name"`                     // ARCH MAGE
	GroupKey    string   `json:"group_key" yaml:"group_key" validate:"required"` // mir
	ImageIndex  int      `json:"image_index" yaml:"image_index" validate:"gte=0,lte=19"`
	XP          int      `json:"xp" yaml:"xp" validate:"gte=0"`
	CoOccurKeys []string `json:"co_occur_keys" yaml:"co_occur_keys,omitempty"`
}

// Group is an unidentified group as the game shows it before identification.
// A group covers one or more monsters that look alike during an encounter.
type Group struct {
	Key       string `json:"key" yaml:"key" validate:"required,entitykey"`
	Name      string `json:"key_name" yaml:"key_name" validate:"required"` // man in robes
	GameGroup string `json:"game_group" yaml:"game_group"`                 // MAN IN ROBES
}

// Kind distinguishes the two tables sharing the key namespace.
type Kind string

const (
	KindGroup   Kind = "g"
	KindMonster Kind = "m"
)

// Reserved keys used by the query grammar.
const (
	ExperienceKey = "x" // experience points given to each survivor
	PartySizeKey  = "c" // characters standing at the end of the encounter
)
