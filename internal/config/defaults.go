// Package config handles caseboard configuration.
package config

// Default values for a new board.
var (
	DefaultDir       = "caseboard"
	DefaultCardsFile = "cards.yml"
	DefaultLocale    = "en"

	DefaultStages = []StageConfig{
		{ID: "intake", Name: "Intake", NameAR: "استقبال", Color: "#64748b"},
		{ID: "consultation", Name: "Consultation", NameAR: "استشارة", Color: "#3b82f6"},
		{ID: "in-progress", Name: "In Progress", NameAR: "قيد التنفيذ", Color: "#f59e0b"},
		{ID: "won", Name: "Won", NameAR: "ناجحة", Color: "#10b981", Won: true},
		{ID: "lost", Name: "Lost", NameAR: "خاسرة", Color: "#ef4444", Lost: true},
	}

	DefaultStage    = "intake"
	DefaultPriority = "medium"

	DefaultVisibleTags = 3
	DefaultStaleDays   = 14

	DefaultAddr     = "127.0.0.1:8080"
	DefaultLogLevel = "info"
)

const (
	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)
