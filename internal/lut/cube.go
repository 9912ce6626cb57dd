package lut

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCube writes the LUT in the Adobe .cube text format. Red varies
// fastest, then green, then blue.
func (l *LUT) WriteCube(w io.Writer, title string) error {
	writer := bufio.NewWriter(w)

	if title != "" {
		fmt.Fprintf(writer, "TITLE %q\n", title)
	}
	fmt.Fprintf(writer, "LUT_3D_SIZE %d\n", Size)
	writer.WriteString("DOMAIN_MIN 0.0 0.0 0.0\n")
	writer.WriteString("DOMAIN_MAX 1.0 1.0 1.0\n")

	for b := 0; b < Size; b++ {
		for g := 0; g < Size; g++ {
			for r := 0; r < Size; r++ {
				node := l.Node(r, g, b)
				fmt.Fprintf(writer, "%.6f %.6f %.6f\n", node[0], node[1], node[2])
			}
		}
	}

	return writer.Flush()
}

// ReadCube parses a .cube file with LUT_3D_SIZE 16 and the default
// [0, 1] domain.
func ReadCube(r io.Reader) (*LUT, error) {
	scanner := bufio.NewScanner(r)
	l := newLUT()
	size := 0
	n := 0

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "TITLE":
			continue
		case "LUT_1D_SIZE":
			return nil, fmt.Errorf("line %d: 1D LUTs are not supported", lineNo)
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed LUT_3D_SIZE", lineNo)
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if v != Size {
				return nil, fmt.Errorf("line %d: LUT_3D_SIZE %d is not supported, want %d", lineNo, v, Size)
			}
			size = v
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX":
			want := "0"
			if fields[0] == "DOMAIN_MAX" {
				want = "1"
			}
			for _, f := range fields[1:] {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if strconv.FormatFloat(v, 'f', -1, 64) != want {
					return nil, fmt.Errorf("line %d: only the [0, 1] domain is supported", lineNo)
				}
			}
			continue
		}

		if size == 0 {
			return nil, fmt.Errorf("line %d: data before LUT_3D_SIZE", lineNo)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 values, got %d", lineNo, len(fields))
		}
		if n >= Size*Size*Size {
			return nil, fmt.Errorf("line %d: too many entries", lineNo)
		}

		var c [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			c[i] = v
		}

		red := n % Size
		green := (n / Size) % Size
		blue := n / (Size * Size)
		l.SetNode(red, green, blue, c)
		n++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cube: %w", err)
	}
	if n != Size*Size*Size {
		return nil, fmt.Errorf("expected %d entries, got %d", Size*Size*Size, n)
	}
	return l, nil
}
