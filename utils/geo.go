package utils

import "math"

// EarthRadiusKm es el radio medio de la Tierra que usa la fórmula de Haversine
const EarthRadiusKm = 6371.0

// HaversineKm devuelve la distancia en kilómetros sobre la superficie terrestre
// entre dos puntos dados en grados.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox devuelve el rectángulo lat/lng que contiene todos los puntos a radiusKm o menos.
// El repositorio lo usa como prefiltro por índice antes de la distancia exacta.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)

	cosLat := math.Cos(toRadians(lat))
	if cosLat < 1e-9 || minLat == -90 || maxLat == 90 {
		return minLat, maxLat, -180, 180
	}
	dLng := radiusKm / (EarthRadiusKm * cosLat) * 180 / math.Pi
	if dLng >= 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, lng - dLng, lng + dLng
}

// ValidCoordinates indica si lat/lng están dentro de sus rangos
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
