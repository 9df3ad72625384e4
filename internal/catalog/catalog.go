package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"
)

// Column names of the reference file.
const (
	ColID          = "id"
	ColLat         = "lat"
	ColLong        = "long"
	ColContador    = "contador"
	ColLeitura     = "leitura"
	ColMatContador = "MatContador"
	ColMedFat      = "MedFat"
)

var RequiredColumns = []string{ColID, ColLat, ColLong, ColContador, ColLeitura, ColMatContador, ColMedFat}

type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

// Point is one inspectable location of the reference dataset.
type Point struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Long        float64 `json:"long"`
	Contador    string  `json:"contador"`
	Leitura     string  `json:"leitura"`
	MatContador string  `json:"mat_contador"`
	MedFat      string  `json:"med_fat"`
}

// Catalog keeps the points in file order. It is never mutated after Load.
type Catalog struct {
	points []Point
	// skipped counts rows left out for an empty or non-numeric coordinate.
	skipped int
}

func Load(path string, enc Encoding, appLogger *logger.Logger) (*Catalog, error) {
	const component = "Catalog"

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s: %w", path, data.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if enc == EncodingWindows1252 {
		r = charmap.Windows1252.NewDecoder().Reader(file)
	}

	c, err := Read(r)
	if err != nil {
		appLogger.Error(component, "Failed to read catalog: path=%s error=%v", path, err)
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	if c.Skipped() > 0 {
		appLogger.Warn(component, "Rows without valid coordinates ignored: path=%s skipped=%d", path, c.Skipped())
	}
	appLogger.Info(component, "Catalog loaded: path=%s points=%d", path, c.Len())
	return c, nil
}

// Read parses a catalog with a header row. Every column is kept as a string;
// only lat and long are converted. Rows whose coordinates do not parse are
// left out and counted in Skipped. A header-only file is an empty catalog.
func Read(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	header, hasRows, err := readHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrMalformedData, err)
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", data.ErrMalformedData, strings.Join(missing, ", "))
	}
	if !hasRows {
		return &Catalog{points: []Point{}}, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
	)
	if err := df.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", data.ErrMalformedData, err)
	}

	cols := make(map[string][]string, len(RequiredColumns))
	for _, name := range RequiredColumns {
		cols[name] = df.Col(name).Records()
	}

	c := &Catalog{points: make([]Point, 0, df.Nrow())}
	for i := 0; i < df.Nrow(); i++ {
		lat, latErr := parseCoordinate(cols[ColLat][i])
		long, longErr := parseCoordinate(cols[ColLong][i])
		if latErr != nil || longErr != nil {
			c.skipped++
			continue
		}

		c.points = append(c.points, Point{
			ID:          strings.TrimSpace(cols[ColID][i]),
			Lat:         lat,
			Long:        long,
			Contador:    cols[ColContador][i],
			Leitura:     cols[ColLeitura][i],
			MatContador: cols[ColMatContador][i],
			MedFat:      cols[ColMedFat][i],
		})
	}

	return c, nil
}

// readHeader returns the column names and whether any record follows them.
func readHeader(raw []byte) ([]string, bool, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return header, false, nil
		}
		return nil, false, err
	}
	return header, true, nil
}

// FindByID returns the first point whose id matches. Duplicated ids are not
// reported.
func (c *Catalog) FindByID(id string) (Point, error) {
	id = strings.TrimSpace(id)
	for _, p := range c.points {
		if p.ID == id {
			return p, nil
		}
	}
	return Point{}, fmt.Errorf("point %q: %w", id, data.ErrNotFound)
}

// IDs lists the selectable ids in file order, duplicates included.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.points))
	for i, p := range c.points {
		ids[i] = p.ID
	}
	return ids
}

func (c *Catalog) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Catalog) Len() int {
	return len(c.points)
}

// Skipped is the number of rows left out for lacking usable coordinates.
func (c *Catalog) Skipped() int {
	return c.skipped
}

func missingColumns(names []string) []string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate %q is not finite", s)
	}
	return v, nil
}
