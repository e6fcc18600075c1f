package store_test

import (
	"context"
	"errors"

	st "github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ = Describe("records store", Ordered, func() {
	var (
		store  st.Store
		gormDB *gorm.DB
	)

	BeforeAll(func() {
		store, gormDB = newTestStore()
	})

	AfterAll(func() {
		store.Close()
	})

	AfterEach(func() {
		gormDB.Exec("DELETE FROM shapes;")
		gormDB.Exec("DELETE FROM shapestats;")
		gormDB.Exec("DELETE FROM routes;")
	})

	It("stores derived shape fields and extras", func() {
		loc := model.NewLocation(-122.4, 37.7)
		offset := int64(120)
		bearing := 270.0
		seq := 4
		p := &model.ShapePoint{
			Base:            model.Base{AgencyKey: "caltrain"},
			ShapeID:         strPtr("A"),
			Loc:             &loc,
			ShapePtSequence: &seq,
			TimeOffset:      &offset,
			BackBearing:     &bearing,
		}
		p.SetExtras(datatypes.JSONMap{"shape_note": "x"})
		Expect(store.Records().Insert(context.TODO(), p)).To(Succeed())

		var got model.ShapePoint
		Expect(gormDB.First(&got).Error).To(BeNil())
		Expect(*got.Loc).To(Equal(loc))
		Expect(*got.TimeOffset).To(Equal(int64(120)))
		Expect(*got.BackBearing).To(Equal(270.0))
		Expect(*got.ShapePtSequence).To(Equal(4))
		Expect(got.Extras).To(HaveKeyWithValue("shape_note", "x"))
	})

	It("deletes only the rows of one agency", func() {
		ctx := context.TODO()
		for _, key := range []string{"a", "a", "b"} {
			Expect(store.Records().Insert(ctx, &model.Route{Base: model.Base{AgencyKey: key}, RouteID: strPtr("r")})).To(Succeed())
		}

		n, err := store.Records().DeleteByAgencyKey(ctx, model.TableRoutes, "a")
		Expect(err).To(BeNil())
		Expect(n).To(Equal(int64(2)))

		count, err := store.Records().Count(ctx, model.TableRoutes, "a")
		Expect(err).To(BeNil())
		Expect(count).To(BeZero())

		count, err = store.Records().Count(ctx, model.TableRoutes, "b")
		Expect(err).To(BeNil())
		Expect(count).To(Equal(int64(1)))
	})

	It("stores shape statistics", func() {
		ctx := context.TODO()
		Expect(store.Records().InsertShapeStat(ctx, &model.ShapeStat{AgencyKey: "a", ShapeID: "A", TotalTime: 8006})).To(Succeed())

		count, err := store.Records().Count(ctx, model.TableShapeStats, "a")
		Expect(err).To(BeNil())
		Expect(count).To(Equal(int64(1)))
	})

	It("rejects unknown tables", func() {
		_, err := store.Records().DeleteByAgencyKey(context.TODO(), "users", "a")
		Expect(errors.Is(err, st.ErrUnknownTable)).To(BeTrue())
	})
})
