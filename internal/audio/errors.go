package audio

import "fmt"

// DeviceError reports that the capture or playback device could not be
// used: the tool is missing, the device is busy or permission was denied.
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("audio device: %v", e.Err)
	}
	return fmt.Sprintf("audio device %s: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
