package geodata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	shp "github.com/jonas-p/go-shp"
	_ "modernc.org/sqlite"

	"github.com/sardrift/driftsim/internal/geo"
	"github.com/sardrift/driftsim/internal/models"
)

// ShapefileProvider answers ShoreType and ShoreInfo from a coastline
// shapefile indexed into a SQLite cache. Grounded closely on
// ngmaloney-marine-terminal/internal/zonelookup/provision.go (shapefile
// → indexed SQLite table) and zonelookup.go's bbox-prefiltered nearest-
// feature query. It does not answer Depth/BathymetryGradient/RipCurrent
// (those return ok=false so a geodata.Fallback routes them to conservative
// defaults) — a coastline shapefile carries shore geometry and type, not
// a bathymetry grid.
type ShapefileProvider struct {
	db *sql.DB
}

// coastlineFeature mirrors one row of the coastline_features table.
type coastlineFeature struct {
	shoreKind               models.ShoreKind
	bboxMinLat, bboxMaxLat  float64
	bboxMinLng, bboxMaxLng  float64
	centerLat, centerLng    float64
}

// OpenShapefileProvider opens (and, if necessary, provisions) the SQLite
// cache at dbPath from the coastline shapefile at shapefilePath.
func OpenShapefileProvider(dbPath, shapefilePath string) (*ShapefileProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening geodata cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging geodata cache: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='coastline_features'").Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking for coastline_features table: %w", err)
	}
	if count == 0 {
		if shapefilePath == "" {
			db.Close()
			return nil, fmt.Errorf("coastline_features table missing and no shapefile path provided")
		}
		if err := provisionFromShapefile(db, shapefilePath); err != nil {
			db.Close()
			return nil, fmt.Errorf("provisioning coastline cache: %w", err)
		}
	}

	return &ShapefileProvider{db: db}, nil
}

func provisionFromShapefile(db *sql.DB, shapefilePath string) error {
	slog.Info("provisioning coastline cache from shapefile", "path", shapefilePath)

	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	_, err = db.Exec(`
		CREATE TABLE coastline_features (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			shore_kind TEXT NOT NULL,
			geometry TEXT NOT NULL,
			bbox_min_lat REAL NOT NULL,
			bbox_max_lat REAL NOT NULL,
			bbox_min_lng REAL NOT NULL,
			bbox_max_lng REAL NOT NULL,
			center_lat REAL NOT NULL,
			center_lng REAL NOT NULL
		);
		CREATE INDEX idx_coastline_bbox ON coastline_features(
			bbox_min_lat, bbox_max_lat, bbox_min_lng, bbox_max_lng
		);
	`)
	if err != nil {
		return fmt.Errorf("creating coastline_features table: %w", err)
	}

	count := 0
	for shape.Next() {
		n, p := shape.Shape()
		shoreKind := shoreKindFromAttribute(shape.ReadAttribute(n, 0))

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}
		bbox := polygon.BBox()

		coords := make([][]float64, 0, len(polygon.Points))
		for _, pt := range polygon.Points {
			coords = append(coords, []float64{pt.X, pt.Y})
		}
		geomJSON, err := json.Marshal(coords)
		if err != nil {
			slog.Warn("marshaling coastline geometry failed", "error", err)
			continue
		}

		centerLat := (bbox.MinY + bbox.MaxY) / 2
		centerLng := (bbox.MinX + bbox.MaxX) / 2

		_, err = db.Exec(`
			INSERT INTO coastline_features (
				shore_kind, geometry,
				bbox_min_lat, bbox_max_lat, bbox_min_lng, bbox_max_lng,
				center_lat, center_lng
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, string(shoreKind), string(geomJSON),
			bbox.MinY, bbox.MaxY, bbox.MinX, bbox.MaxX,
			centerLat, centerLng)
		if err != nil {
			slog.Warn("inserting coastline feature failed", "error", err)
			continue
		}
		count++
	}

	slog.Info("coastline cache provisioned", "features", count)
	return nil
}

// shoreKindFromAttribute maps a shapefile attribute value to a ShoreKind,
// defaulting to sandy for anything unrecognized (mirrors
// drift.LeewayParamsFor / shallow.ShoreParamsFor's default-to-common-case
// shape).
func shoreKindFromAttribute(attr string) models.ShoreKind {
	switch models.ShoreKind(attr) {
	case models.ShoreRocky, models.ShoreSandy, models.ShoreMuddy,
		models.ShoreMarsh, models.ShoreMangrove, models.ShoreSeawall,
		models.ShoreRiprap, models.ShoreCoral:
		return models.ShoreKind(attr)
	default:
		return models.ShoreSandy
	}
}

// nearestFeature finds the coastline feature whose center is closest to
// p, prefiltered by an expanded bounding box (same shape as
// zonelookup.go's getNearbyMarineZonesFromDB).
func (s *ShapefileProvider) nearestFeature(ctx context.Context, p models.LatLng, maxDegrees float64) (*coastlineFeature, float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT shore_kind, bbox_min_lat, bbox_max_lat, bbox_min_lng, bbox_max_lng, center_lat, center_lng
		FROM coastline_features
		WHERE bbox_min_lat <= ? AND bbox_max_lat >= ?
		  AND bbox_min_lng <= ? AND bbox_max_lng >= ?
	`, p.Lat+maxDegrees, p.Lat-maxDegrees, p.Lng+maxDegrees, p.Lng-maxDegrees)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var best *coastlineFeature
	bestDist := math.Inf(1)
	for rows.Next() {
		var f coastlineFeature
		var kind string
		if err := rows.Scan(&kind, &f.bboxMinLat, &f.bboxMaxLat, &f.bboxMinLng, &f.bboxMaxLng, &f.centerLat, &f.centerLng); err != nil {
			continue
		}
		f.shoreKind = models.ShoreKind(kind)
		d := geo.Haversine(p, models.LatLng{Lat: f.centerLat, Lng: f.centerLng})
		if d < bestDist {
			bestDist = d
			fCopy := f
			best = &fCopy
		}
	}
	return best, bestDist, rows.Err()
}

func (s *ShapefileProvider) Depth(ctx context.Context, p models.LatLng) (float64, bool) {
	return 0, false
}

func (s *ShapefileProvider) BathymetryGradient(ctx context.Context, p models.LatLng) (models.BathymetryGradient, bool) {
	return models.BathymetryGradient{}, false
}

func (s *ShapefileProvider) ShoreType(ctx context.Context, p models.LatLng) (models.ShoreKind, bool) {
	f, _, err := s.nearestFeature(ctx, p, 1.0)
	if err != nil || f == nil {
		return "", false
	}
	return f.shoreKind, true
}

// ShoreInfo returns distance to and bearing toward the nearest coastline
// feature's center, and a shore normal approximated as that bearing
// reversed (rotated 180°: the seaward-pointing perpendicular to a roughly
// straight local coastline — a coarse approximation documented here
// rather than a full geometric tangent fit).
func (s *ShapefileProvider) ShoreInfo(ctx context.Context, p models.LatLng) (distKm, dirDeg, shoreNormalDeg float64, ok bool) {
	f, dist, err := s.nearestFeature(ctx, p, 1.0)
	if err != nil || f == nil {
		return 0, 0, 0, false
	}
	center := models.LatLng{Lat: f.centerLat, Lng: f.centerLng}
	bearing := geo.Bearing(p, center)
	normal := math.Mod(bearing+180, 360)
	return dist, bearing, normal, true
}

func (s *ShapefileProvider) RipCurrent(ctx context.Context, p models.LatLng, t time.Time) (models.RipCurrent, bool) {
	return models.RipCurrent{}, false
}

// Close closes the underlying SQLite handle.
func (s *ShapefileProvider) Close() error {
	return s.db.Close()
}
