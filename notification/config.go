package notification

// Config for user notifications
type Config struct {
	// Locale selects the language of notification messages
	Locale string `mapstructure:"Locale"`

	// MaxNotifications is how many app notifications are kept, oldest are dropped first
	MaxNotifications int `mapstructure:"MaxNotifications"`
}
