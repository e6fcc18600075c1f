package gtfs_test

import (
	"github.com/spritesoftware/node-gtfs/internal/gtfs"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func spec(base string) gtfs.FileSpec {
	s, ok := gtfs.Lookup(base)
	Expect(ok).To(BeTrue())
	return s
}

var _ = Describe("transformer", func() {
	var t *gtfs.Transformer

	BeforeEach(func() {
		t = gtfs.NewTransformer("caltrain")
	})

	It("attaches the agency key and keeps unknown columns as extras", func() {
		rec, warnings := t.Transform(spec("routes"), gtfs.Row{
			"route_id":   "r1",
			"route_type": "2",
			"network_id": "bay",
		})
		Expect(warnings).To(BeEmpty())

		route, ok := rec.(*model.Route)
		Expect(ok).To(BeTrue())
		Expect(route.AgencyKey).To(Equal("caltrain"))
		Expect(*route.RouteID).To(Equal("r1"))
		Expect(route.RouteShortName).To(BeNil())
		Expect(route.Extras).To(HaveKeyWithValue("network_id", "bay"))
		Expect(route.TableName()).To(Equal("routes"))
	})

	It("leaves extras empty when every column is known", func() {
		rec, _ := t.Transform(spec("calendar_dates"), gtfs.Row{"service_id": "wk", "date": "20240101", "exception_type": "2"})
		Expect(rec.(*model.CalendarDate).Extras).To(BeNil())
	})

	It("coerces stop_sequence and direction_id to integers", func() {
		rec, warnings := t.Transform(spec("stop_times"), gtfs.Row{"trip_id": "t1", "stop_sequence": "12"})
		Expect(warnings).To(BeEmpty())
		Expect(*rec.(*model.StopTime).StopSequence).To(Equal(12))

		rec, warnings = t.Transform(spec("trips"), gtfs.Row{"trip_id": "t1", "direction_id": "1"})
		Expect(warnings).To(BeEmpty())
		Expect(*rec.(*model.Trip).DirectionID).To(Equal(1))
	})

	It("flags malformed integers and leaves the field unset", func() {
		rec, warnings := t.Transform(spec("stop_times"), gtfs.Row{"trip_id": "t1", "stop_sequence": "abc"})
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0].Field).To(Equal("stop_sequence"))
		Expect(warnings[0].Value).To(Equal("abc"))

		st := rec.(*model.StopTime)
		Expect(st.StopSequence).To(BeNil())
		Expect(*st.TripID).To(Equal("t1"))
	})

	It("reads the leading digits of an integer", func() {
		rec, warnings := t.Transform(spec("stop_times"), gtfs.Row{"trip_id": "t1", "stop_sequence": "1.0"})
		Expect(warnings).To(BeEmpty())
		Expect(*rec.(*model.StopTime).StopSequence).To(Equal(1))

		rec, warnings = t.Transform(spec("trips"), gtfs.Row{"trip_id": "t1", "direction_id": "-3x"})
		Expect(warnings).To(BeEmpty())
		Expect(*rec.(*model.Trip).DirectionID).To(Equal(-3))

		rec, warnings = t.Transform(spec("stop_times"), gtfs.Row{"trip_id": "t1", "stop_sequence": ".5"})
		Expect(warnings).To(HaveLen(1))
		Expect(rec.(*model.StopTime).StopSequence).To(BeNil())
	})

	It("builds a stop location and keeps the textual coordinates", func() {
		rec, warnings := t.Transform(spec("stops"), gtfs.Row{"stop_id": "s1", "stop_lat": "37.5", "stop_lon": "-122.25"})
		Expect(warnings).To(BeEmpty())

		stop := rec.(*model.Stop)
		Expect(stop.Location()).NotTo(BeNil())
		Expect(*stop.Location()).To(Equal(model.Location{-122.25, 37.5}))
		Expect(*stop.StopLat).To(Equal("37.5"))
		Expect(*stop.StopLon).To(Equal("-122.25"))
	})

	It("builds no location when a coordinate is missing", func() {
		rec, warnings := t.Transform(spec("stops"), gtfs.Row{"stop_id": "s1", "stop_lat": "37.5"})
		Expect(warnings).To(BeEmpty())
		Expect(rec.(*model.Stop).Location()).To(BeNil())
	})

	It("flags malformed coordinates and builds no location", func() {
		rec, warnings := t.Transform(spec("stops"), gtfs.Row{"stop_id": "s1", "stop_lat": "north", "stop_lon": "1"})
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0].Field).To(Equal("stop_lat"))
		Expect(rec.(*model.Stop).Location()).To(BeNil())
	})

	DescribeTable("flags non-finite coordinates and builds no location",
		func(lat, lon string) {
			rec, warnings := t.Transform(spec("stops"), gtfs.Row{"stop_id": "s1", "stop_lat": lat, "stop_lon": lon})
			Expect(warnings).To(HaveLen(1))
			Expect(rec.(*model.Stop).Location()).To(BeNil())

			rec, warnings = t.Transform(spec("shapes"), gtfs.Row{"shape_id": "A", "shape_pt_lat": lat, "shape_pt_lon": lon})
			Expect(warnings).To(HaveLen(1))
			Expect(rec.(*model.ShapePoint).Loc).To(BeNil())
		},
		Entry("NaN latitude", "NaN", "1"),
		Entry("NaN longitude", "1", "nan"),
		Entry("infinite latitude", "Inf", "1"),
		Entry("negative infinity", "1", "-infinity"),
	)

	It("replaces shape coordinates with the location", func() {
		rec, warnings := t.Transform(spec("shapes"), gtfs.Row{
			"shape_id":          "A",
			"shape_pt_lat":      "1",
			"shape_pt_lon":      "2",
			"shape_pt_sequence": "3",
		})
		Expect(warnings).To(BeEmpty())

		p := rec.(*model.ShapePoint)
		Expect(*p.Loc).To(Equal(model.Location{2, 1}))
		Expect(*p.ShapePtSequence).To(Equal(3))
		Expect(p.Extras).To(BeNil())
		Expect(p.TimeOffset).To(BeNil())
	})

	It("keeps shape coordinates as extras when they cannot be parsed", func() {
		rec, warnings := t.Transform(spec("shapes"), gtfs.Row{
			"shape_id":     "A",
			"shape_pt_lat": "x",
			"shape_pt_lon": "2",
		})
		Expect(warnings).To(HaveLen(1))

		p := rec.(*model.ShapePoint)
		Expect(p.Loc).To(BeNil())
		Expect(p.Extras).To(HaveKeyWithValue("shape_pt_lat", "x"))
		Expect(p.Extras).To(HaveKeyWithValue("shape_pt_lon", "2"))
	})
})

var _ = Describe("catalog", func() {
	It("lists files in import order", func() {
		bases := []string{}
		for _, s := range gtfs.Catalog {
			bases = append(bases, s.Base)
		}
		Expect(bases).To(Equal([]string{
			"agency", "calendar", "calendar_dates", "fare_attributes", "fare_rules", "feed_info",
			"frequencies", "routes", "stop_times", "stops", "transfers", "trips", "shapes",
		}))
		Expect(gtfs.Catalog[0].FileName()).To(Equal("agency.txt"))
	})

	It("includes the shape statistics in the collections", func() {
		Expect(gtfs.Collections()).To(HaveLen(14))
		Expect(gtfs.Collections()).To(ContainElements("calendardates", "stoptimes", "shapestats"))
	})
})
