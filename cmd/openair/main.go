// cmd/openair/main.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// openair loads one or more OpenAir airspace definition files, filters
// and consolidates the records, and answers spatial queries against the
// result, emitting JSON.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmp/openair/airspace"
	"github.com/mmp/openair/log"
	"github.com/mmp/openair/math"
	"github.com/mmp/openair/openair"
	"github.com/mmp/openair/util"

	"golang.org/x/sync/errgroup"
)

var (
	logLevel    = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
	source      = flag.String("source", "US", "record id namespace: US, CA, or USER")
	consolidate = flag.Bool("consolidate", true, "merge near-duplicate airspace records")
	cacheDir    = flag.String("cachedir", "", "directory for consolidation and dataset caches (default: user cache dir)")
	noCache     = flag.Bool("nocache", false, "disable the consolidation and dataset caches")
	atQuery     = flag.String("at", "", "report airspaces containing the point \"lat,lon\"")
	nearQuery   = flag.String("near", "", "report airspaces near the point \"lat,lon,radiusKm\"")
	polyQuery   = flag.String("polygon", "", "report airspaces intersecting the polygon \"lat,lon lat,lon ...\"")
)

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: openair [flags] file.txt...\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	src := airspace.Source(strings.ToUpper(*source))
	switch src {
	case airspace.SourceUS, airspace.SourceCA, airspace.SourceUser:
	default:
		fmt.Fprintf(os.Stderr, "%s: source must be US, CA, or USER\n", *source)
		os.Exit(1)
	}

	recs, err := loadAirspaces(files, src, lg)
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lg.Infof("loaded %d airspace records from %d files", len(recs), len(files))

	switch {
	case *atQuery != "":
		p, err := parsePoint(*atQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-at: %v\n", err)
			os.Exit(1)
		}
		emitJSON(airspace.FindAtPoint(p, recs))

	case *nearQuery != "":
		p, radiusKm, err := parsePointRadius(*nearQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-near: %v\n", err)
			os.Exit(1)
		}
		emitJSON(airspace.FindNearby(p, radiusKm, recs))

	case *polyQuery != "":
		poly, err := parsePolygon(*polyQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-polygon: %v\n", err)
			os.Exit(1)
		}
		emitJSON(airspace.FindInPolygon(poly, recs))

	default:
		emitJSON(recs)
	}
}

// loadAirspaces parses the given files concurrently, converts and filters
// the results, and consolidates duplicates. The fully-processed dataset
// is cached keyed by a hash of the source file contents, so reloading
// unchanged sources skips the whole pipeline.
func loadAirspaces(files []string, src airspace.Source, lg *log.Logger) ([]airspace.Record, error) {
	contents := make([][]byte, len(files))
	var g errgroup.Group
	for i, fn := range files {
		i, fn := i, fn
		g.Go(func() error {
			b, err := os.ReadFile(fn)
			if err != nil {
				return err
			}
			contents[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cache := openCacheDir(lg)

	// Check the dataset cache before doing any real work.
	h := sha256.New()
	h.Write([]byte(src))
	for _, b := range contents {
		h.Write(b)
	}
	datasetKey := "dataset-" + hex.EncodeToString(h.Sum(nil))[:16] + ".zst"

	if cache != "" {
		var recs []airspace.Record
		if _, err := util.RetrieveCompressed(filepath.Join(cache, datasetKey), &recs); err == nil {
			lg.Infof("loaded %d records from dataset cache", len(recs))
			return recs, nil
		}
	}

	parsed := make([][]airspace.Record, len(files))
	for i, fn := range files {
		i, fn := i, fn
		g.Go(func() error {
			recs := openair.ConvertToAPIFormat(openair.Parse(string(contents[i]), lg), src)

			if fi, err := os.Stat(fn); err == nil {
				for j := range recs {
					recs[j].Metadata = &airspace.Metadata{
						FileName: filepath.Base(fn),
						FileSize: fi.Size(),
						Modified: fi.ModTime(),
						Source:   string(src),
					}
				}
			}
			parsed[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var recs []airspace.Record
	for _, p := range parsed {
		recs = append(recs, p...)
	}

	recs = airspace.FilterValid(recs, lg)

	if *consolidate {
		var store util.Store
		if cache != "" {
			if fs, err := util.NewFileStore(cache); err == nil {
				store = fs
			} else {
				lg.Warnf("unable to open cache store: %v", err)
			}
		}
		recs = airspace.Consolidate(recs, lg)
		recs = airspace.ConsolidateRoutes(recs, store, lg)
	}

	if cache != "" {
		if err := util.StoreCompressed(filepath.Join(cache, datasetKey), recs); err != nil {
			lg.Warnf("unable to write dataset cache: %v", err)
		}
	}

	return recs, nil
}

func openCacheDir(lg *log.Logger) string {
	if *noCache {
		return ""
	}
	dir := *cacheDir
	if dir == "" {
		cd, err := os.UserCacheDir()
		if err != nil {
			lg.Warnf("unable to find user cache dir: %v", err)
			return ""
		}
		dir = filepath.Join(cd, "OpenAir")
	}
	return dir
}

func parsePoint(s string) (math.Point2LL, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return math.Point2LL{}, fmt.Errorf("%q: expected \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return math.Point2LL{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return math.Point2LL{}, err
	}

	p := math.Point2LL{lon, lat}
	if !p.Valid() {
		return math.Point2LL{}, fmt.Errorf("%q: latitude-longitude out of range", s)
	}
	return p, nil
}

func parsePointRadius(s string) (math.Point2LL, float64, error) {
	idx := strings.LastIndex(s, ",")
	if idx == -1 {
		return math.Point2LL{}, 0, fmt.Errorf("%q: expected \"lat,lon,radiusKm\"", s)
	}
	p, err := parsePoint(s[:idx])
	if err != nil {
		return math.Point2LL{}, 0, err
	}
	radius, err := strconv.ParseFloat(strings.TrimSpace(s[idx+1:]), 64)
	if err != nil {
		return math.Point2LL{}, 0, err
	}
	return p, radius, nil
}

func parsePolygon(s string) ([]math.Point2LL, error) {
	var poly []math.Point2LL
	for _, tok := range strings.Fields(s) {
		p, err := parsePoint(tok)
		if err != nil {
			return nil, err
		}
		poly = append(poly, p)
	}
	if len(poly) < 3 {
		return nil, fmt.Errorf("%q: a polygon needs at least 3 vertices", s)
	}
	return poly, nil
}

func emitJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
}
