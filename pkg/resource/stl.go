package resource

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// binary STL: 80-byte header, uint32 triangle count, 50 bytes per triangle.
const stlHeaderSize = 84

// stlTriangleCount reads the triangle count from an STL file, handling both
// the binary and the ASCII encoding. ASCII files are detected by the
// "solid" prefix plus a facet keyword, since binary files may also start
// with "solid" in their free-form header.
func stlTriangleCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("mesh file: %w", err)
	}
	defer f.Close()

	header := make([]byte, stlHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("read STL %s: file too short", path)
	}

	if strings.HasPrefix(string(header[:5]), "solid") {
		if count, ok := countASCIIFacets(f); ok {
			return count, nil
		}
	}

	count := binary.LittleEndian.Uint32(header[80:84])
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("read STL %s: %w", path, err)
	}
	if expected := int64(stlHeaderSize) + int64(count)*50; info.Size() < expected {
		return 0, fmt.Errorf("read STL %s: truncated, %d triangles declared", path, count)
	}
	return int(count), nil
}

// countASCIIFacets scans the rest of the file for "facet" keywords. It
// reports ok=false when the content does not look like ASCII STL at all, so
// the caller falls back to the binary layout.
func countASCIIFacets(f *os.File) (int, bool) {
	if _, err := f.Seek(0, 0); err != nil {
		return 0, false
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	count, sawKeyword := 0, false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "facet"):
			count++
			sawKeyword = true
		case strings.HasPrefix(line, "endsolid"):
			sawKeyword = true
		case strings.IndexByte(line, 0) >= 0:
			// Binary payload, not ASCII.
			return 0, false
		}
	}
	if sc.Err() != nil || !sawKeyword {
		return 0, false
	}
	return count, true
}
