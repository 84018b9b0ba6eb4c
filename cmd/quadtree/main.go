// Command quadtree builds an edge quadtree from a CSV of line segments
// (x1,y1,x2,y2 per row) and prints the node table as CSV.
//
// Settings come from quadtree.toml in the working directory or QUADTREE_*
// environment variables: max_depth, min_size, workers, scale and the domain
// bounds (x_min, x_max, y_min, y_max). Unset bounds are derived from the
// input, and an unset scale from the bounds and depth.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/LeviBarnes/cuspatial"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cuspatial.SetLogger(log.Level(zerolog.InfoLevel))

	viper.SetDefault("max_depth", 8)
	viper.SetDefault("min_size", 16)
	viper.SetDefault("workers", 0)
	viper.SetDefault("print_permutation", false)
	viper.SetConfigName("quadtree")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("quadtree")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal().Err(err).Msg("failed to read config")
		}
	}

	if len(os.Args) != 2 {
		log.Fatal().Msgf("usage: %s <edges.csv>", os.Args[0])
	}
	x1, y1, x2, y2, err := readEdges(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Str("path", os.Args[1]).Msg("failed to read edges")
	}

	dom := domainFromConfig(x1, y1, x2, y2)
	log.Info().
		Int("edges", len(x1)).
		Int("max_depth", dom.MaxDepth).
		Int("min_size", dom.MinSize).
		Float64("scale", dom.Scale).
		Msg("building quadtree")

	b := cuspatial.NewBuilder(dom)
	b.Workers = viper.GetInt("workers")
	b.Reserve(len(x1))
	for i := range x1 {
		b.Add(x1[i], y1[i], x2[i], y2[i])
	}
	res, err := b.Build(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("build failed")
	}

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"key", "level", "is_node", "length", "offset"})
	t := res.Table
	for i := 0; i < t.Len(); i++ {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(t.Key(i)), 10),
			strconv.Itoa(int(t.Level(i))),
			strconv.FormatBool(t.IsNode(i)),
			strconv.FormatUint(uint64(t.Length(i)), 10),
			strconv.FormatUint(uint64(t.Offset(i)), 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal().Err(err).Msg("failed to write table")
	}

	if viper.GetBool("print_permutation") {
		for _, p := range res.Permutation {
			fmt.Println(p)
		}
	}
}

func readEdges(path string) (x1, y1, x2, y2 []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, nil, err
		}
		var vals [4]float64
		for i, field := range rec {
			vals[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, nil, fmt.Errorf("bad coordinate %q: %w", field, err)
			}
		}
		x1 = append(x1, vals[0])
		y1 = append(y1, vals[1])
		x2 = append(x2, vals[2])
		y2 = append(y2, vals[3])
	}
	return x1, y1, x2, y2, nil
}

func domainFromConfig(x1, y1, x2, y2 []float64) cuspatial.Domain {
	dom := cuspatial.Domain{
		MinX:     viper.GetFloat64("x_min"),
		MaxX:     viper.GetFloat64("x_max"),
		MinY:     viper.GetFloat64("y_min"),
		MaxY:     viper.GetFloat64("y_max"),
		Scale:    viper.GetFloat64("scale"),
		MaxDepth: viper.GetInt("max_depth"),
		MinSize:  viper.GetInt("min_size"),
	}
	if dom.MinX == dom.MaxX || dom.MinY == dom.MaxY {
		dom.MinX, dom.MaxX = math.Inf(1), math.Inf(-1)
		dom.MinY, dom.MaxY = math.Inf(1), math.Inf(-1)
		for i := range x1 {
			dom.MinX = math.Min(dom.MinX, math.Min(x1[i], x2[i]))
			dom.MaxX = math.Max(dom.MaxX, math.Max(x1[i], x2[i]))
			dom.MinY = math.Min(dom.MinY, math.Min(y1[i], y2[i]))
			dom.MaxY = math.Max(dom.MaxY, math.Max(y1[i], y2[i]))
		}
	}
	if dom.Scale <= 0 {
		grid := float64(uint32(1) << uint(dom.MaxDepth))
		span := math.Max(dom.MaxX-dom.MinX, dom.MaxY-dom.MinY)
		dom.Scale = span / grid
		for dom.Scale*grid < span {
			dom.Scale = math.Nextafter(dom.Scale, math.Inf(1))
		}
	}
	return dom
}
