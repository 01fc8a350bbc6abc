package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Player plays a clip to completion.
type Player interface {
	Play(ctx context.Context, clip *Clip) error
}

// CommandPlayer pipes clips into an external player's stdin.
type CommandPlayer struct {
	Command string
	Args    []string
}

var playerCommands = []CommandPlayer{
	{Command: "aplay", Args: []string{"-q", "-"}},
	{Command: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-i", "pipe:0"}},
	{Command: "play", Args: []string{"-q", "-t", "wav", "-"}},
}

// NewCommandPlayer builds a player from a command line such as "aplay -q -".
// An empty line selects the first player found on PATH.
func NewCommandPlayer(commandLine string) (*CommandPlayer, error) {
	if fields := strings.Fields(commandLine); len(fields) > 0 {
		return &CommandPlayer{Command: fields[0], Args: fields[1:]}, nil
	}
	for _, p := range playerCommands {
		if _, err := exec.LookPath(p.Command); err == nil {
			return &p, nil
		}
	}
	return nil, &DeviceError{Device: "speaker", Err: errors.New("no audio player found (install alsa-utils, ffmpeg or sox)")}
}

func (p *CommandPlayer) Play(ctx context.Context, clip *Clip) error {
	if clip.Empty() {
		return errors.New("nothing to play")
	}
	path, err := exec.LookPath(p.Command)
	if err != nil {
		return &DeviceError{Device: p.Command, Err: err}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, p.Args...)
	cmd.Stdin = bytes.NewReader(clip.Data)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return &DeviceError{Device: p.Command, Err: err}
	}
	return nil
}
