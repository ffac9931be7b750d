package capture

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nutrilens/pkg/errors"
)

// StreamSource captures from a live stream handle, such as a camera
// device node. The opener is invoked per acquisition; the stream is
// closed before Acquire returns, whether or not it succeeded.
type StreamSource struct {
	name   string
	probe  func() bool
	opener func(ctx context.Context) (io.ReadCloser, error)
}

// NewStreamSource builds a stream-backed source.
func NewStreamSource(name string, probe func() bool, opener func(ctx context.Context) (io.ReadCloser, error)) *StreamSource {
	return &StreamSource{name: name, probe: probe, opener: opener}
}

// NewDeviceSource captures from a device node like /dev/video0.
func NewDeviceSource(path string) *StreamSource {
	return NewStreamSource(
		"device:"+path,
		func() bool {
			_, err := os.Stat(path)
			return err == nil
		},
		func(ctx context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	)
}

func (s *StreamSource) Name() string { return s.name }

func (s *StreamSource) Available() bool {
	if s.probe == nil {
		return true
	}
	return s.probe()
}

// Acquire opens the stream and reads one frame's worth of bytes. The
// stream handle is released on every path, including ctx cancellation
// before the read starts.
func (s *StreamSource) Acquire(ctx context.Context) (*Frame, error) {
	stream, err := s.opener(ctx)
	if err != nil {
		return nil, errors.NewCaptureUnavailableError("cannot open capture stream").WithCause(err)
	}
	if err := ctx.Err(); err != nil {
		stream.Close()
		return nil, err
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		stream.Close()
		return nil, errors.NewCaptureUnavailableError("capture stream read failed").WithCause(err)
	}
	return &Frame{Data: data, release: stream.Close}, nil
}

// imageExtensions are the picker's accepted file types.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// PickerSource captures the most recent image in a directory, standing
// in for the device photo picker.
type PickerSource struct {
	dir string
}

// NewPickerSource builds a picker over dir.
func NewPickerSource(dir string) *PickerSource {
	return &PickerSource{dir: dir}
}

func (s *PickerSource) Name() string { return "picker:" + s.dir }

func (s *PickerSource) Available() bool {
	_, err := s.newest()
	return err == nil
}

func (s *PickerSource) Acquire(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.newest()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewCaptureUnavailableError("cannot read picked image").WithCause(err)
	}
	return &Frame{Data: data}, nil
}

// newest returns the most recently modified image in the directory.
func (s *PickerSource) newest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", errors.NewCaptureUnavailableError("picker directory unavailable").WithCause(err)
	}
	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(s.dir, e.Name()),
			mod:  info.ModTime().UnixNano(),
		})
	}
	if len(candidates) == 0 {
		return "", errors.NewCaptureUnavailableError("no images in picker directory")
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod > candidates[j].mod })
	return candidates[0].path, nil
}

// FileSource captures a single explicit file, the upload fallback.
type FileSource struct {
	path string
}

// NewFileSource builds a source over one file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Available() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

func (s *FileSource) Acquire(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewCaptureUnavailableError("cannot read image file").WithCause(err)
	}
	return &Frame{Data: data}, nil
}
