package gtfs

import "github.com/spritesoftware/node-gtfs/internal/store/model"

// FileSpec names one GTFS file and the table its records are written to.
type FileSpec struct {
	Base       string
	Collection string

	decode func(f *fields) model.Record
}

func (s FileSpec) FileName() string {
	return s.Base + ".txt"
}

// Catalog is the fixed, ordered list of files an import reads. Files are
// imported in this order.
var Catalog = []FileSpec{
	{Base: "agency", Collection: model.TableAgencies, decode: decodeAgency},
	{Base: "calendar", Collection: model.TableCalendars, decode: decodeCalendar},
	{Base: "calendar_dates", Collection: model.TableCalendarDates, decode: decodeCalendarDate},
	{Base: "fare_attributes", Collection: model.TableFareAttributes, decode: decodeFareAttribute},
	{Base: "fare_rules", Collection: model.TableFareRules, decode: decodeFareRule},
	{Base: "feed_info", Collection: model.TableFeedInfos, decode: decodeFeedInfo},
	{Base: "frequencies", Collection: model.TableFrequencies, decode: decodeFrequency},
	{Base: "routes", Collection: model.TableRoutes, decode: decodeRoute},
	{Base: "stop_times", Collection: model.TableStopTimes, decode: decodeStopTime},
	{Base: "stops", Collection: model.TableStops, decode: decodeStop},
	{Base: "transfers", Collection: model.TableTransfers, decode: decodeTransfer},
	{Base: "trips", Collection: model.TableTrips, decode: decodeTrip},
	{Base: "shapes", Collection: model.TableShapes, decode: decodeShapePoint},
}

// Lookup returns the catalog entry for a file base name.
func Lookup(base string) (FileSpec, bool) {
	for _, s := range Catalog {
		if s.Base == base {
			return s, true
		}
	}
	return FileSpec{}, false
}

// Collections returns every table written by an import, including the
// derived shape statistics.
func Collections() []string {
	names := make([]string, 0, len(Catalog)+1)
	for _, s := range Catalog {
		names = append(names, s.Collection)
	}
	return append(names, model.TableShapeStats)
}
