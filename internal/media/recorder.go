package media

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrRecorderBusy is returned when a recording is started while another is
// still active. One active recording at a time, like the device recorder.
var ErrRecorderBusy = errors.New("a recording is already in progress")

// VoiceRecorder tracks the one in-progress or completed voice memo. The
// actual audio capture happens outside the core; the recorder only manages
// the handoff file reference the edit session consumes.
type VoiceRecorder struct {
	mu        sync.Mutex
	recording bool
	fileRef   string
}

func NewVoiceRecorder() *VoiceRecorder {
	return &VoiceRecorder{}
}

// Start marks a recording as active, targeting the given file.
func (v *VoiceRecorder) Start(fileRef string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.recording {
		return ErrRecorderBusy
	}
	v.recording = true
	v.fileRef = fileRef
	return nil
}

// Stop finishes the active recording and returns the memo file reference.
// The file must exist by the time recording stops.
func (v *VoiceRecorder) Stop() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.recording {
		return "", errors.New("no recording in progress")
	}
	v.recording = false
	if _, err := os.Stat(v.fileRef); err != nil {
		v.fileRef = ""
		return "", fmt.Errorf("recorded memo missing: %w", err)
	}
	return v.fileRef, nil
}

// Current returns the completed memo file reference, empty when none.
func (v *VoiceRecorder) Current() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.recording {
		return ""
	}
	return v.fileRef
}

func (v *VoiceRecorder) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recording = false
	v.fileRef = ""
}
