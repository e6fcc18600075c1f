package gtfs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"gorm.io/datatypes"
)

// Warning reports a field whose value could not be coerced. The record is
// still produced; the offending field is left out of it.
type Warning struct {
	Field string
	Value string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s=%q: %v", w.Field, w.Value, w.Err)
}

// Transformer turns raw rows into typed records owned by one agency.
type Transformer struct {
	agencyKey string
}

func NewTransformer(agencyKey string) *Transformer {
	return &Transformer{agencyKey: agencyKey}
}

func (t *Transformer) AgencyKey() string {
	return t.agencyKey
}

// Transform builds the record for one row of the file described by spec.
func (t *Transformer) Transform(spec FileSpec, row Row) (model.Record, []Warning) {
	f := &fields{row: row, used: make(map[string]struct{}, len(row))}
	record := spec.decode(f)
	record.SetAgencyKey(t.agencyKey)
	record.SetExtras(f.extras())
	return record, f.warnings
}

// fields hands out typed values from a row and remembers which columns
// were consumed so the rest can be kept as extras.
type fields struct {
	row      Row
	used     map[string]struct{}
	warnings []Warning
}

func (f *fields) str(name string) *string {
	f.used[name] = struct{}{}
	v, ok := f.row[name]
	if !ok {
		return nil
	}
	return &v
}

func (f *fields) integer(name string) *int {
	f.used[name] = struct{}{}
	v, ok := f.row[name]
	if !ok {
		return nil
	}
	n, err := leadingInt(v)
	if err != nil {
		f.warn(name, v, err)
		return nil
	}
	return &n
}

var errNoDigits = errors.New("no leading digits")

// leadingInt parses the base-10 integer at the start of v and ignores
// whatever follows it, so "1.0" reads as 1.
func leadingInt(v string) (int, error) {
	t := strings.TrimLeft(v, " \t")
	end := 0
	if end < len(t) && (t[end] == '-' || t[end] == '+') {
		end++
	}
	digits := end
	for end < len(t) && t[end] >= '0' && t[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, errNoDigits
	}
	return strconv.Atoi(t[:end])
}

var errNotFinite = errors.New("coordinate is not finite")

func parseCoordinate(v string) (float64, error) {
	c, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, errNotFinite
	}
	return c, nil
}

// location builds a [lon, lat] pair from two coordinate columns. It returns
// nil when either column is absent or unparsable.
func (f *fields) location(latName, lonName string) *model.Location {
	latText, hasLat := f.row[latName]
	lonText, hasLon := f.row[lonName]
	if !hasLat || !hasLon {
		return nil
	}
	lat, err := parseCoordinate(latText)
	if err != nil {
		f.warn(latName, latText, err)
		return nil
	}
	lon, err := parseCoordinate(lonText)
	if err != nil {
		f.warn(lonName, lonText, err)
		return nil
	}
	loc := model.NewLocation(lon, lat)
	return &loc
}

func (f *fields) consume(names ...string) {
	for _, name := range names {
		f.used[name] = struct{}{}
	}
}

func (f *fields) warn(name, value string, err error) {
	f.warnings = append(f.warnings, Warning{Field: name, Value: value, Err: err})
}

func (f *fields) extras() datatypes.JSONMap {
	var extras datatypes.JSONMap
	for name, value := range f.row {
		if _, ok := f.used[name]; ok {
			continue
		}
		if extras == nil {
			extras = datatypes.JSONMap{}
		}
		extras[name] = value
	}
	return extras
}

func decodeAgency(f *fields) model.Record {
	return &model.Agency{
		AgencyID:       f.str("agency_id"),
		AgencyName:     f.str("agency_name"),
		AgencyURL:      f.str("agency_url"),
		AgencyTimezone: f.str("agency_timezone"),
		AgencyLang:     f.str("agency_lang"),
		AgencyPhone:    f.str("agency_phone"),
		AgencyFareURL:  f.str("agency_fare_url"),
		AgencyEmail:    f.str("agency_email"),
	}
}

func decodeCalendar(f *fields) model.Record {
	return &model.Calendar{
		ServiceID: f.str("service_id"),
		Monday:    f.str("monday"),
		Tuesday:   f.str("tuesday"),
		Wednesday: f.str("wednesday"),
		Thursday:  f.str("thursday"),
		Friday:    f.str("friday"),
		Saturday:  f.str("saturday"),
		Sunday:    f.str("sunday"),
		StartDate: f.str("start_date"),
		EndDate:   f.str("end_date"),
	}
}

func decodeCalendarDate(f *fields) model.Record {
	return &model.CalendarDate{
		ServiceID:     f.str("service_id"),
		Date:          f.str("date"),
		ExceptionType: f.str("exception_type"),
	}
}

func decodeFareAttribute(f *fields) model.Record {
	return &model.FareAttribute{
		FareID:           f.str("fare_id"),
		Price:            f.str("price"),
		CurrencyType:     f.str("currency_type"),
		PaymentMethod:    f.str("payment_method"),
		Transfers:        f.str("transfers"),
		AgencyID:         f.str("agency_id"),
		TransferDuration: f.str("transfer_duration"),
	}
}

func decodeFareRule(f *fields) model.Record {
	return &model.FareRule{
		FareID:        f.str("fare_id"),
		RouteID:       f.str("route_id"),
		OriginID:      f.str("origin_id"),
		DestinationID: f.str("destination_id"),
		ContainsID:    f.str("contains_id"),
	}
}

func decodeFeedInfo(f *fields) model.Record {
	return &model.FeedInfo{
		FeedPublisherName: f.str("feed_publisher_name"),
		FeedPublisherURL:  f.str("feed_publisher_url"),
		FeedLang:          f.str("feed_lang"),
		DefaultLang:       f.str("default_lang"),
		FeedStartDate:     f.str("feed_start_date"),
		FeedEndDate:       f.str("feed_end_date"),
		FeedVersion:       f.str("feed_version"),
		FeedContactEmail:  f.str("feed_contact_email"),
		FeedContactURL:    f.str("feed_contact_url"),
	}
}

func decodeFrequency(f *fields) model.Record {
	return &model.Frequency{
		TripID:      f.str("trip_id"),
		StartTime:   f.str("start_time"),
		EndTime:     f.str("end_time"),
		HeadwaySecs: f.str("headway_secs"),
		ExactTimes:  f.str("exact_times"),
	}
}

func decodeRoute(f *fields) model.Record {
	return &model.Route{
		RouteID:        f.str("route_id"),
		AgencyID:       f.str("agency_id"),
		RouteShortName: f.str("route_short_name"),
		RouteLongName:  f.str("route_long_name"),
		RouteDesc:      f.str("route_desc"),
		RouteType:      f.str("route_type"),
		RouteURL:       f.str("route_url"),
		RouteColor:     f.str("route_color"),
		RouteTextColor: f.str("route_text_color"),
		RouteSortOrder: f.str("route_sort_order"),
	}
}

func decodeStopTime(f *fields) model.Record {
	return &model.StopTime{
		TripID:            f.str("trip_id"),
		ArrivalTime:       f.str("arrival_time"),
		DepartureTime:     f.str("departure_time"),
		StopID:            f.str("stop_id"),
		StopSequence:      f.integer("stop_sequence"),
		StopHeadsign:      f.str("stop_headsign"),
		PickupType:        f.str("pickup_type"),
		DropOffType:       f.str("drop_off_type"),
		ShapeDistTraveled: f.str("shape_dist_traveled"),
		Timepoint:         f.str("timepoint"),
	}
}

// decodeStop keeps the textual coordinates next to the derived location.
func decodeStop(f *fields) model.Record {
	return &model.Stop{
		StopID:             f.str("stop_id"),
		StopCode:           f.str("stop_code"),
		StopName:           f.str("stop_name"),
		StopDesc:           f.str("stop_desc"),
		StopLat:            f.str("stop_lat"),
		StopLon:            f.str("stop_lon"),
		Loc:                f.location("stop_lat", "stop_lon"),
		ZoneID:             f.str("zone_id"),
		StopURL:            f.str("stop_url"),
		LocationType:       f.str("location_type"),
		ParentStation:      f.str("parent_station"),
		StopTimezone:       f.str("stop_timezone"),
		WheelchairBoarding: f.str("wheelchair_boarding"),
		PlatformCode:       f.str("platform_code"),
	}
}

func decodeTransfer(f *fields) model.Record {
	return &model.Transfer{
		FromStopID:      f.str("from_stop_id"),
		ToStopID:        f.str("to_stop_id"),
		TransferType:    f.str("transfer_type"),
		MinTransferTime: f.str("min_transfer_time"),
	}
}

func decodeTrip(f *fields) model.Record {
	return &model.Trip{
		RouteID:              f.str("route_id"),
		ServiceID:            f.str("service_id"),
		TripID:               f.str("trip_id"),
		TripHeadsign:         f.str("trip_headsign"),
		TripShortName:        f.str("trip_short_name"),
		DirectionID:          f.integer("direction_id"),
		BlockID:              f.str("block_id"),
		ShapeID:              f.str("shape_id"),
		WheelchairAccessible: f.str("wheelchair_accessible"),
		BikesAllowed:         f.str("bikes_allowed"),
	}
}

// decodeShapePoint replaces the coordinate columns with the location when
// both are present. Otherwise they are kept as extras.
func decodeShapePoint(f *fields) model.Record {
	p := &model.ShapePoint{
		ShapeID:           f.str("shape_id"),
		ShapePtSequence:   f.integer("shape_pt_sequence"),
		ShapeDistTraveled: f.str("shape_dist_traveled"),
	}
	if loc := f.location("shape_pt_lat", "shape_pt_lon"); loc != nil {
		p.Loc = loc
		f.consume("shape_pt_lat", "shape_pt_lon")
	}
	return p
}
