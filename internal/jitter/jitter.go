// Package jitter displaces published coordinates deterministically so the
// public map never exposes a contributor's exact collection point. The same
// stable key and salt always produce the same displaced point, so published
// coordinates do not drift between rebuilds.
package jitter

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

const (
	metersPerDegLat = 111_000.0

	// Longitude meters-per-degree shrinks with cos(lat); the floor keeps the
	// conversion finite near the poles.
	minCosLat = 0.01
)

// unitFloats derives two independent values in [0,1) from a sha256 digest of
// the key: the first two 8-byte chunks, each reduced modulo 10^12 and
// rescaled.
func unitFloats(key string) (float64, float64) {
	const mod = 1_000_000_000_000
	h := sha256.Sum256([]byte(key))
	r1 := float64(binary.BigEndian.Uint64(h[0:8])%mod) / mod
	r2 := float64(binary.BigEndian.Uint64(h[8:16])%mod) / mod
	return r1, r2
}

// Jitter maps a true point to a public point within radiusM meters, seeded by
// stable key and secret salt. Identical inputs yield bit-identical output.
// Distance uses sqrt sampling so displaced points are uniform over the disk
// rather than clustered at the center. The resulting longitude is wrapped
// into [-180,180] and latitude clamped into [-90,90]; callers must supply
// already-validated finite coordinates.
func Jitter(lat, lon float64, key, salt string, radiusM float64) (float64, float64) {
	r1, r2 := unitFloats(key + "|" + salt)

	theta := 2 * math.Pi * r1
	d := radiusM * math.Sqrt(r2)

	cosLat := math.Max(minCosLat, math.Cos(lat*math.Pi/180))
	dLat := d * math.Cos(theta) / metersPerDegLat
	dLon := d * math.Sin(theta) / (metersPerDegLat * cosLat)

	jLat := lat + dLat
	jLon := lon + dLon

	if jLon > 180 {
		jLon -= 360
	}
	if jLon < -180 {
		jLon += 360
	}
	jLat = math.Max(-90, math.Min(90, jLat))
	return jLat, jLon
}
