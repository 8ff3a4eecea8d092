package dedupfiles

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"github.com/google/vectorio"
	"gopkg.in/yaml.v3"
)

// FormatPairHuman renders a pair the way it is printed as it is found
func FormatPairHuman(pair DuplicatePair) string {
	return fmt.Sprintf("Duplicate found:\n - %s\n - %s\n", pair.Duplicate, pair.Kept)
}

// RenderReport renders the result in one of the report formats. The output is
// returned as separate segments so it can be written with a single writev.
func RenderReport(result *ScanResult, format string) ([][]byte, error) {
	switch strings.ToLower(format) {
	case FormatHuman, "":
		return renderHuman(result), nil
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json report: %w", err)
		}
		return [][]byte{data, []byte("\n")}, nil
	case FormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return [][]byte{data}, nil
	case FormatFdupes:
		return renderFdupes(result), nil
	default:
		return nil, ValidateOutputFormat(format)
	}
}

func renderHuman(result *ScanResult) [][]byte {
	segments := make([][]byte, 0, len(result.Pairs)+1)
	for _, pair := range result.Pairs {
		line := FormatPairHuman(pair)
		line += fmt.Sprintf("   size: %s\n", FormatHumanSize(pair.Size))
		switch {
		case pair.Error != "":
			line += fmt.Sprintf("   error: %s\n", pair.Error)
		case pair.Skipped:
			line += "   skipped: permission denied\n"
		}
		segments = append(segments, []byte(line+"\n"))
	}
	if result.DryRun {
		segments = append(segments, []byte(fmt.Sprintf("Would reclaim %s\n", FormatHumanSize(result.ReclaimedBytes()))))
	} else {
		segments = append(segments, []byte(fmt.Sprintf("Reclaimed %s\n", FormatHumanSize(result.ReclaimedBytes()))))
	}
	segments = append(segments, []byte(result.Summary()+"\n"))
	return segments
}

// renderFdupes lists each group with the kept file first, groups separated by
// a blank line
func renderFdupes(result *ScanResult) [][]byte {
	var segments [][]byte
	for i, group := range GroupPairs(result.Pairs) {
		var b strings.Builder
		if i > 0 {
			b.WriteString("\n")
		}
		for _, file := range group.Files {
			b.WriteString(file)
			b.WriteString("\n")
		}
		segments = append(segments, []byte(b.String()))
	}
	return segments
}

// WriteReport renders result and writes it to path
func WriteReport(path, format string, result *ScanResult) error {
	segments, err := RenderReport(result, format)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer file.Close()

	if err := writeSegments(file, segments); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return file.Close()
}

// RenderReportTo renders result to an arbitrary writer
func RenderReportTo(w io.Writer, format string, result *ScanResult) error {
	segments, err := RenderReport(result, format)
	if err != nil {
		return err
	}
	for _, segment := range segments {
		if _, err := w.Write(segment); err != nil {
			return err
		}
	}
	return nil
}

// maxIovecs stays well below IOV_MAX on every supported platform
const maxIovecs = 512

// writeSegments writes all segments with vectored writes, chunked to respect
// IOV_MAX and retrying after short writes
func writeSegments(file *os.File, segments [][]byte) error {
	var pending [][]byte
	for _, segment := range segments {
		if len(segment) > 0 {
			pending = append(pending, segment)
		}
	}

	for len(pending) > 0 {
		chunk := pending
		if len(chunk) > maxIovecs {
			chunk = chunk[:maxIovecs]
		}

		iovecs := make([]syscall.Iovec, len(chunk))
		for i, segment := range chunk {
			iovecs[i].Base = (*byte)(unsafe.Pointer(&segment[0]))
			iovecs[i].SetLen(len(segment))
		}

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs)
		if err != nil {
			return err
		}
		if nw == 0 {
			return io.ErrShortWrite
		}

		pending = advanceSegments(pending, nw)
	}

	return nil
}

// advanceSegments drops n written bytes from the front of segments
func advanceSegments(segments [][]byte, n int) [][]byte {
	for n > 0 && len(segments) > 0 {
		if n < len(segments[0]) {
			segments[0] = segments[0][n:]
			return segments
		}
		n -= len(segments[0])
		segments = segments[1:]
	}
	return segments
}
