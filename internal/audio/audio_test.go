package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	wav := EncodeWAV(pcm, 24000, 1)

	if len(wav) != wavHeaderSize+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), wavHeaderSize+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", wav[:44])
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
}

func TestPCMRate(t *testing.T) {
	tests := []struct {
		mime string
		want int
		ok   bool
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000, true},
		{"audio/L16; rate=16000", 16000, true},
		{"audio/L16", 0, false},
		{"audio/L16;rate=abc", 0, false},
		{"audio/wav", 0, false},
	}
	for _, tt := range tests {
		got, ok := PCMRate(tt.mime)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PCMRate(%q) = %d, %v; want %d, %v", tt.mime, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsRawPCM(t *testing.T) {
	if !IsRawPCM("audio/L16;codec=pcm;rate=24000") {
		t.Error("audio/L16 should be raw PCM")
	}
	if IsRawPCM("audio/wav") {
		t.Error("audio/wav is not raw PCM")
	}
}

func TestClipEmpty(t *testing.T) {
	var nilClip *Clip
	if !nilClip.Empty() {
		t.Error("nil clip should be empty")
	}
	if !(&Clip{Data: EncodeWAV(nil, 16000, 1), MIMEType: MIMEWAV}).Empty() {
		t.Error("header-only WAV should be empty")
	}
	if (&Clip{Data: EncodeWAV([]byte{0, 0}, 16000, 1), MIMEType: MIMEWAV}).Empty() {
		t.Error("WAV with one frame should not be empty")
	}
	if (&Clip{Data: []byte{0xff, 0xfb}, MIMEType: "audio/mpeg"}).Empty() {
		t.Error("non-WAV data should not be empty")
	}
}

func TestFileRecorder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.wav")
	data := EncodeWAV([]byte{1, 2, 3, 4}, DefaultSampleRate, DefaultChannels)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &FileRecorder{Path: path}
	capture, err := rec.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	clip, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if clip.MIMEType != MIMEWAV || len(clip.Data) != len(data) {
		t.Errorf("clip = %s, %d bytes", clip.MIMEType, len(clip.Data))
	}
}

func TestFileRecorderMissingFile(t *testing.T) {
	rec := &FileRecorder{Path: filepath.Join(t.TempDir(), "missing.wav")}
	_, err := rec.Start(context.Background())
	var de *DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DeviceError", err)
	}
}

func TestCommandRecorderMissingTool(t *testing.T) {
	rec := &CommandRecorder{Command: "speakup-no-such-recorder"}
	_, err := rec.Start(context.Background())
	var de *DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DeviceError", err)
	}
}

func TestCommandRecorderToolExitsImmediately(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	rec := &CommandRecorder{Command: "sh", Args: []string{"-c", "echo 'device busy' >&2; exit 1"}}
	_, err := rec.Start(context.Background())
	var de *DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DeviceError", err)
	}
	if de.Err.Error() != "device busy" {
		t.Errorf("message = %q, want tool stderr", de.Err.Error())
	}
}

func TestCommandRecorderStopReturnsFile(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	rec := &CommandRecorder{
		Command: "sh",
		Args:    []string{"-c", `head -c 64 /dev/zero > "$0"; exec sleep 10`, FilePlaceholder},
	}
	capture, err := rec.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	clip, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(clip.Data) != 64 {
		t.Errorf("captured %d bytes, want 64", len(clip.Data))
	}

	if _, err := capture.Stop(); err == nil {
		t.Error("second Stop should fail")
	}
}

func TestCommandRecorderDiscard(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	rec := &CommandRecorder{Command: "sh", Args: []string{"-c", "exec sleep 10"}}
	capture, err := rec.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	capture.Discard()
	capture.Discard()
}

func TestNewCommandRecorderParsesLine(t *testing.T) {
	rec, err := NewCommandRecorder("arecord -f S16_LE {file}")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Command != "arecord" || len(rec.Args) != 3 || rec.Args[2] != FilePlaceholder {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestCommandPlayer(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	p := &CommandPlayer{Command: "cat"}
	clip := &Clip{Data: EncodeWAV([]byte{0, 0}, 16000, 1), MIMEType: MIMEWAV}
	if err := p.Play(context.Background(), clip); err != nil {
		t.Fatalf("Play: %v", err)
	}

	missing := &CommandPlayer{Command: "speakup-no-such-player"}
	var de *DeviceError
	if err := missing.Play(context.Background(), clip); !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DeviceError", err)
	}
}
