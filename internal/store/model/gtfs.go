package model

// Table names match the collections the importer has always written to.
const (
	TableAgencies       = "agencies"
	TableCalendars      = "calendars"
	TableCalendarDates  = "calendardates"
	TableFareAttributes = "fareattributes"
	TableFareRules      = "farerules"
	TableFeedInfos      = "feedinfos"
	TableFrequencies    = "frequencies"
	TableRoutes         = "routes"
	TableStopTimes      = "stoptimes"
	TableStops          = "stops"
	TableTransfers      = "transfers"
	TableTrips          = "trips"
	TableShapes         = "shapes"
	TableShapeStats     = "shapestats"
)

type Agency struct {
	Base
	AgencyID       *string
	AgencyName     *string
	AgencyURL      *string `gorm:"column:agency_url"`
	AgencyTimezone *string
	AgencyLang     *string
	AgencyPhone    *string
	AgencyFareURL  *string `gorm:"column:agency_fare_url"`
	AgencyEmail    *string
	AgencyBounds   *Bounds   `gorm:"column:agency_bounds"`
	AgencyCenter   *Location `gorm:"column:agency_center"`
}

func (Agency) TableName() string { return TableAgencies }

type Calendar struct {
	Base
	ServiceID *string `gorm:"index"`
	Monday    *string
	Tuesday   *string
	Wednesday *string
	Thursday  *string
	Friday    *string
	Saturday  *string
	Sunday    *string
	StartDate *string
	EndDate   *string
}

func (Calendar) TableName() string { return TableCalendars }

type CalendarDate struct {
	Base
	ServiceID     *string `gorm:"index"`
	Date          *string
	ExceptionType *string
}

func (CalendarDate) TableName() string { return TableCalendarDates }

type FareAttribute struct {
	Base
	FareID           *string
	Price            *string
	CurrencyType     *string
	PaymentMethod    *string
	Transfers        *string
	AgencyID         *string
	TransferDuration *string
}

func (FareAttribute) TableName() string { return TableFareAttributes }

type FareRule struct {
	Base
	FareID        *string
	RouteID       *string
	OriginID      *string
	DestinationID *string
	ContainsID    *string
}

func (FareRule) TableName() string { return TableFareRules }

type FeedInfo struct {
	Base
	FeedPublisherName *string
	FeedPublisherURL  *string `gorm:"column:feed_publisher_url"`
	FeedLang          *string
	DefaultLang       *string
	FeedStartDate     *string
	FeedEndDate       *string
	FeedVersion       *string
	FeedContactEmail  *string
	FeedContactURL    *string `gorm:"column:feed_contact_url"`
}

func (FeedInfo) TableName() string { return TableFeedInfos }

type Frequency struct {
	Base
	TripID      *string `gorm:"index"`
	StartTime   *string
	EndTime     *string
	HeadwaySecs *string
	ExactTimes  *string
}

func (Frequency) TableName() string { return TableFrequencies }

type Route struct {
	Base
	RouteID        *string `gorm:"index"`
	AgencyID       *string
	RouteShortName *string
	RouteLongName  *string
	RouteDesc      *string
	RouteType      *string
	RouteURL       *string `gorm:"column:route_url"`
	RouteColor     *string
	RouteTextColor *string
	RouteSortOrder *string
}

func (Route) TableName() string { return TableRoutes }

type StopTime struct {
	Base
	TripID            *string `gorm:"index"`
	ArrivalTime       *string
	DepartureTime     *string
	StopID            *string `gorm:"index"`
	StopSequence      *int
	StopHeadsign      *string
	PickupType        *string
	DropOffType       *string
	ShapeDistTraveled *string
	Timepoint         *string
}

func (StopTime) TableName() string { return TableStopTimes }

type Stop struct {
	Base
	StopID             *string `gorm:"index"`
	StopCode           *string
	StopName           *string
	StopDesc           *string
	StopLat            *string
	StopLon            *string
	Loc                *Location `gorm:"column:loc"`
	ZoneID             *string
	StopURL            *string `gorm:"column:stop_url"`
	LocationType       *string
	ParentStation      *string
	StopTimezone       *string
	WheelchairBoarding *string
	PlatformCode       *string
}

func (Stop) TableName() string { return TableStops }

func (s *Stop) Location() *Location { return s.Loc }

type Transfer struct {
	Base
	FromStopID      *string
	ToStopID        *string
	TransferType    *string
	MinTransferTime *string
}

func (Transfer) TableName() string { return TableTransfers }

type Trip struct {
	Base
	RouteID              *string `gorm:"index"`
	ServiceID            *string
	TripID               *string `gorm:"index"`
	TripHeadsign         *string
	TripShortName        *string
	DirectionID          *int
	BlockID              *string
	ShapeID              *string
	WheelchairAccessible *string
	BikesAllowed         *string
}

func (Trip) TableName() string { return TableTrips }

// ShapePoint is one row of shapes.txt. TimeOffset and BackBearing are
// derived while the points of a shape are streamed in order.
type ShapePoint struct {
	Base
	ShapeID           *string `gorm:"index"`
	Loc               *Location `gorm:"column:loc"`
	ShapePtSequence   *int
	ShapeDistTraveled *string
	TimeOffset        *int64
	BackBearing       *float64
}

func (ShapePoint) TableName() string { return TableShapes }

func (p *ShapePoint) Location() *Location { return p.Loc }

// ShapeStat summarises a shape once all its points have been seen.
type ShapeStat struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	AgencyKey string `gorm:"column:agency_key;type:VARCHAR(255);not null;index" json:"agency_key"`
	ShapeID   string `gorm:"not null" json:"shape_id"`
	TotalTime int64  `gorm:"not null" json:"total_time"`
}

func (ShapeStat) TableName() string { return TableShapeStats }

// AllModels lists every record table, used by migrations.
func AllModels() []interface{} {
	return []interface{}{
		&Agency{},
		&Calendar{},
		&CalendarDate{},
		&FareAttribute{},
		&FareRule{},
		&FeedInfo{},
		&Frequency{},
		&Route{},
		&StopTime{},
		&Stop{},
		&Transfer{},
		&Trip{},
		&ShapePoint{},
		&ShapeStat{},
		&ImportRun{},
	}
}

// ModelFor returns an empty model for the given table name.
func ModelFor(table string) (interface{}, bool) {
	for _, m := range AllModels() {
		if t, ok := m.(interface{ TableName() string }); ok && t.TableName() == table {
			return m, true
		}
	}
	return nil, false
}
