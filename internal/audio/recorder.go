package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Recorder acquires the capture device.
type Recorder interface {
	// Start begins capturing. A *DeviceError is returned when the device
	// cannot be acquired.
	Start(ctx context.Context) (Capture, error)
}

// Capture is one in-progress recording.
type Capture interface {
	// Stop ends the recording and returns the captured clip.
	Stop() (*Clip, error)
	// Discard ends the recording and drops the audio.
	Discard()
}

// FilePlaceholder in CommandRecorder.Args is replaced with the output path.
const FilePlaceholder = "{file}"

const (
	startupGrace = 200 * time.Millisecond
	stopTimeout  = 3 * time.Second
)

// CommandRecorder records by running an external capture tool that writes a
// WAV file and finishes it cleanly on SIGINT.
type CommandRecorder struct {
	Command string
	Args    []string
}

// Known capture tools, in preference order.
var recorderCommands = []CommandRecorder{
	{Command: "arecord", Args: []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "wav", FilePlaceholder}},
	{Command: "rec", Args: []string{"-q", "-c", "1", "-r", "16000", "-b", "16", FilePlaceholder}},
}

// NewCommandRecorder builds a recorder from a command line such as
// "arecord -f S16_LE {file}". An empty line selects the first capture tool
// found on PATH.
func NewCommandRecorder(commandLine string) (*CommandRecorder, error) {
	if fields := strings.Fields(commandLine); len(fields) > 0 {
		return &CommandRecorder{Command: fields[0], Args: fields[1:]}, nil
	}
	for _, c := range recorderCommands {
		if _, err := exec.LookPath(c.Command); err == nil {
			return &c, nil
		}
	}
	return nil, &DeviceError{Device: "microphone", Err: errors.New("no capture tool found (install alsa-utils or sox)")}
}

func (r *CommandRecorder) Start(ctx context.Context) (Capture, error) {
	path, err := exec.LookPath(r.Command)
	if err != nil {
		return nil, &DeviceError{Device: r.Command, Err: err}
	}

	out, err := os.CreateTemp("", "speakup-rec-*.wav")
	if err != nil {
		return nil, &DeviceError{Device: r.Command, Err: fmt.Errorf("create capture file: %w", err)}
	}
	outPath := out.Name()
	out.Close()

	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = strings.ReplaceAll(a, FilePlaceholder, outPath)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		os.Remove(outPath)
		return nil, &DeviceError{Device: r.Command, Err: err}
	}

	c := &commandCapture{
		device: r.Command,
		cmd:    cmd,
		path:   outPath,
		stderr: &stderr,
		done:   make(chan error, 1),
	}
	go func() { c.done <- cmd.Wait() }()

	// A busy or missing device makes the tool exit right away.
	select {
	case err := <-c.done:
		os.Remove(outPath)
		msg := strings.TrimSpace(stderr.String())
		if msg == "" && err != nil {
			msg = err.Error()
		}
		if msg == "" {
			msg = "capture tool exited immediately"
		}
		return nil, &DeviceError{Device: r.Command, Err: errors.New(msg)}
	case <-ctx.Done():
		c.Discard()
		return nil, ctx.Err()
	case <-time.After(startupGrace):
	}

	slog.Debug("recording started", "tool", r.Command, "file", outPath)
	return c, nil
}

type commandCapture struct {
	device string
	cmd    *exec.Cmd
	path   string
	stderr *bytes.Buffer
	done   chan error

	once sync.Once
}

func (c *commandCapture) Stop() (*Clip, error) {
	var clip *Clip
	var err error
	c.once.Do(func() {
		defer os.Remove(c.path)
		c.halt()

		data, readErr := os.ReadFile(c.path)
		if readErr != nil {
			err = &DeviceError{Device: c.device, Err: readErr}
			return
		}
		clip = &Clip{Data: data, MIMEType: MIMEWAV}
		if clip.Empty() {
			clip, err = nil, &DeviceError{Device: c.device, Err: errors.New("no audio captured")}
		}
	})
	if clip == nil && err == nil {
		err = &DeviceError{Device: c.device, Err: errors.New("recording already stopped")}
	}
	return clip, err
}

func (c *commandCapture) Discard() {
	c.once.Do(func() {
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		<-c.done
		os.Remove(c.path)
	})
}

// halt interrupts the tool so it can finalize the WAV header, escalating to
// a kill if it does not exit in time.
func (c *commandCapture) halt() {
	if c.cmd.Process == nil {
		return
	}
	if err := c.cmd.Process.Signal(os.Interrupt); err != nil {
		slog.Debug("interrupt capture tool", "err", err)
	}
	select {
	case <-c.done:
	case <-time.After(stopTimeout):
		slog.Warn("capture tool did not exit, killing", "tool", c.device)
		c.cmd.Process.Kill()
		<-c.done
	}
}

// FileRecorder "records" by reading a pre-recorded file when stopped.
type FileRecorder struct {
	Path string
}

func (r *FileRecorder) Start(context.Context) (Capture, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, &DeviceError{Device: r.Path, Err: err}
	}
	return &fileCapture{path: r.Path}, nil
}

type fileCapture struct {
	path string
}

func (c *fileCapture) Stop() (*Clip, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, &DeviceError{Device: c.path, Err: err}
	}
	clip := &Clip{Data: data, MIMEType: mimeFromPath(c.path)}
	if clip.Empty() {
		return nil, &DeviceError{Device: c.path, Err: errors.New("file contains no audio")}
	}
	return clip, nil
}

func (c *fileCapture) Discard() {}

func mimeFromPath(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "mp3":
		return "audio/mpeg"
	case "ogg", "oga":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	case "webm":
		return "audio/webm"
	case "m4a":
		return "audio/mp4"
	default:
		return MIMEWAV
	}
}
