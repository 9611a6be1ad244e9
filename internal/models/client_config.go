package models

import "fmt"

const (
	DefaultScreenshotInterval = 300
	DefaultUploadType         = ScheduleDaily
	DefaultUploadValue        = ScheduleValue("09:03")
)

// ClientSettings is one device's entry in the shared client-config document.
// The file is also read and written by the client processes themselves.
type ClientSettings struct {
	ScreenshotInterval int           `json:"screenshot_interval"`
	UploadType         ScheduleKind  `json:"upload_type"`
	UploadValue        ScheduleValue `json:"upload_value"`
}

// ClientConfigs maps a DeviceID to that device's settings.
type ClientConfigs map[string]ClientSettings

func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		ScreenshotInterval: DefaultScreenshotInterval,
		UploadType:         DefaultUploadType,
		UploadValue:        DefaultUploadValue,
	}
}

func (s *ClientSettings) Normalize() {
	if s.ScreenshotInterval <= 0 {
		s.ScreenshotInterval = DefaultScreenshotInterval
	}
	if !s.UploadType.Valid() {
		s.UploadType = DefaultUploadType
	}
	if s.UploadValue == "" {
		s.UploadValue = DefaultUploadValue
	}
}

func (s ClientSettings) Validate() error {
	if s.ScreenshotInterval <= 0 {
		return fmt.Errorf("screenshot interval must be a positive number of seconds, got %d", s.ScreenshotInterval)
	}
	return ValidateSchedule(s.UploadType, s.UploadValue)
}
