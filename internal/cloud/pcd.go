package cloud

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// ReadPCD parses an ASCII PCD file with x, y, z fields. Binary PCD data
// is rejected.
func ReadPCD(r io.Reader) (*PointCloud, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		fields    []string
		declared  = -1
		inHeader  = true
		pc        = &PointCloud{}
		xi, yi, zi = -1, -1, -1
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if inHeader {
			parts := strings.Fields(line)
			switch strings.ToUpper(parts[0]) {
			case "FIELDS":
				fields = parts[1:]
				for i, f := range fields {
					switch strings.ToLower(f) {
					case "x":
						xi = i
					case "y":
						yi = i
					case "z":
						zi = i
					}
				}
			case "POINTS":
				n, err := strconv.Atoi(parts[1])
				if err != nil {
					return nil, fmt.Errorf("pcd: bad POINTS count %q", parts[1])
				}
				declared = n
			case "DATA":
				if len(parts) < 2 || strings.ToLower(parts[1]) != "ascii" {
					return nil, fmt.Errorf("pcd: only ascii data supported, got %q", line)
				}
				if xi < 0 || yi < 0 || zi < 0 {
					return nil, fmt.Errorf("pcd: missing x/y/z in FIELDS %v", fields)
				}
				inHeader = false
			case "VERSION", "SIZE", "TYPE", "COUNT", "WIDTH", "HEIGHT", "VIEWPOINT":
				// Accepted and ignored.
			default:
				return nil, fmt.Errorf("pcd: unknown header line %q", line)
			}
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < len(fields) {
			return nil, fmt.Errorf("pcd: point line %q has %d fields, want %d", line, len(parts), len(fields))
		}
		var v r3.Vector
		var err error
		if v.X, err = strconv.ParseFloat(parts[xi], 64); err != nil {
			return nil, fmt.Errorf("pcd: bad x %q: %w", parts[xi], err)
		}
		if v.Y, err = strconv.ParseFloat(parts[yi], 64); err != nil {
			return nil, fmt.Errorf("pcd: bad y %q: %w", parts[yi], err)
		}
		if v.Z, err = strconv.ParseFloat(parts[zi], 64); err != nil {
			return nil, fmt.Errorf("pcd: bad z %q: %w", parts[zi], err)
		}
		pc.Points = append(pc.Points, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pcd: %w", err)
	}
	if inHeader {
		return nil, fmt.Errorf("pcd: no DATA section")
	}
	if declared >= 0 && declared != len(pc.Points) {
		return nil, fmt.Errorf("pcd: header declares %d points but %d present", declared, len(pc.Points))
	}
	return pc, nil
}

// LoadPCD reads an ASCII PCD file from disk.
func LoadPCD(path string) (*PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load pcd: %w", err)
	}
	defer f.Close()
	pc, err := ReadPCD(f)
	if err != nil {
		return nil, fmt.Errorf("load pcd %s: %w", path, err)
	}
	return pc, nil
}

// WritePCD writes the cloud as ASCII PCD with x, y, z fields.
func (pc *PointCloud) WritePCD(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := len(pc.Points)
	fmt.Fprintln(bw, "# .PCD v0.7 - Point Cloud Data file format")
	fmt.Fprintln(bw, "VERSION 0.7")
	fmt.Fprintln(bw, "FIELDS x y z")
	fmt.Fprintln(bw, "SIZE 4 4 4")
	fmt.Fprintln(bw, "TYPE F F F")
	fmt.Fprintln(bw, "COUNT 1 1 1")
	fmt.Fprintf(bw, "WIDTH %d\n", n)
	fmt.Fprintln(bw, "HEIGHT 1")
	fmt.Fprintln(bw, "VIEWPOINT 0 0 0 1 0 0 0")
	fmt.Fprintf(bw, "POINTS %d\n", n)
	fmt.Fprintln(bw, "DATA ascii")
	for _, p := range pc.Points {
		fmt.Fprintf(bw, "%g %g %g\n", p.X, p.Y, p.Z)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write pcd: %w", err)
	}
	return nil
}

// SavePCD writes the cloud to a file.
func (pc *PointCloud) SavePCD(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save pcd: %w", err)
	}
	if err := pc.WritePCD(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
