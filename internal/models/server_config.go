package models

const (
	DefaultConversionType  = ScheduleDaily
	DefaultConversionValue = ScheduleValue("02:00")
)

// ServerConfig is the server's own persisted document: when to run the
// conversion sweep, plus display aliases for known devices.
type ServerConfig struct {
	ConversionType  ScheduleKind      `json:"conversion_type"`
	ConversionValue ScheduleValue     `json:"conversion_value"`
	ClientAliases   map[string]string `json:"client_aliases"`
}

func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ConversionType:  DefaultConversionType,
		ConversionValue: DefaultConversionValue,
		ClientAliases:   make(map[string]string),
	}
}

// Normalize fills absent fields with defaults so a partially written document
// still loads as a complete config.
func (c *ServerConfig) Normalize() {
	if !c.ConversionType.Valid() {
		c.ConversionType = DefaultConversionType
	}
	if c.ConversionValue == "" {
		c.ConversionValue = DefaultConversionValue
	}
	if c.ClientAliases == nil {
		c.ClientAliases = make(map[string]string)
	}
}

func (c *ServerConfig) Validate() error {
	return ValidateSchedule(c.ConversionType, c.ConversionValue)
}

// ScheduleSpec renders the active schedule for status lines, e.g.
// "daily at 02:00" or "every 3600s".
func (c *ServerConfig) ScheduleSpec() string {
	if c.ConversionType == SchedulePeriodic {
		return "every " + string(c.ConversionValue) + "s"
	}
	return "daily at " + string(c.ConversionValue)
}
