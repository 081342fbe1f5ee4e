package report

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"
)

// Artifact framing: a 5-byte header (magic + version), then one frame per
// report. Each frame is a uint32 compressed length, a uint32 CRC32 of the
// compressed bytes, and a snappy block holding the report JSON. This is
// the hand-off format for shipping a batch of comparisons to the external
// prompting layer as a single file.
var artifactMagic = []byte("NLDR")

const artifactVersion = byte(1)

// Artifact framing errors.
var (
	ErrBadMagic     = errors.New("not a report artifact")
	ErrBadVersion   = errors.New("unsupported artifact version")
	ErrCorruptFrame = errors.New("corrupt artifact frame")
)

// ArtifactWriter appends compressed report frames to a file.
type ArtifactWriter struct {
	file   *os.File
	writer *bufio.Writer
	frames int
}

// NewArtifactWriter creates (or truncates) an artifact file and writes
// the header.
func NewArtifactWriter(path string) (*ArtifactWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	w := &ArtifactWriter{file: file, writer: bufio.NewWriter(file)}
	if _, err := w.writer.Write(artifactMagic); err != nil {
		file.Close()
		return nil, err
	}
	if err := w.writer.WriteByte(artifactVersion); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one report frame.
func (w *ArtifactWriter) Append(r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(hdr[4:8], crc32.ChecksumIEEE(compressed))
	if _, err := w.writer.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.writer.Write(compressed); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns the number of reports appended so far.
func (w *ArtifactWriter) Frames() int { return w.frames }

// Close flushes and closes the artifact file.
func (w *ArtifactWriter) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadArtifact loads every report from an artifact file, verifying frame
// checksums.
func ReadArtifact(path string) ([]*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	magic := make([]byte, len(artifactMagic))
	if _, err := io.ReadFull(reader, magic); err != nil {
		return nil, ErrBadMagic
	}
	if string(magic) != string(artifactMagic) {
		return nil, ErrBadMagic
	}
	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrBadMagic
	}
	if version != artifactVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}

	var reports []*Report
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(reader, hdr[:]); err != nil {
			if err == io.EOF {
				return reports, nil
			}
			return nil, fmt.Errorf("%w: truncated header", ErrCorruptFrame)
		}
		length := binary.LittleEndian.Uint32(hdr[0:4])
		checksum := binary.LittleEndian.Uint32(hdr[4:8])

		compressed := make([]byte, length)
		if _, err := io.ReadFull(reader, compressed); err != nil {
			return nil, fmt.Errorf("%w: truncated frame", ErrCorruptFrame)
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptFrame)
		}
		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
		}
		var r Report
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: bad report JSON", ErrCorruptFrame)
		}
		reports = append(reports, &r)
	}
}
