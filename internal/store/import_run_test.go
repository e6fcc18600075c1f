package store_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	st "github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("import run store", Ordered, func() {
	var store st.Store

	BeforeAll(func() {
		store, _ = newTestStore()
	})

	AfterAll(func() {
		store.Close()
	})

	It("creates, updates and lists runs", func() {
		ctx := context.TODO()
		start := time.Now().Add(-time.Minute)

		run, err := store.ImportRun().Create(ctx, model.ImportRun{
			AgencyKey: "caltrain",
			URL:       "http://example.com/caltrain.zip",
			Status:    model.ImportRunStatusRunning,
			StartedAt: start,
		})
		Expect(err).To(BeNil())
		Expect(run.ID).NotTo(Equal(uuid.Nil))

		finished := time.Now()
		run.Status = model.ImportRunStatusCompleted
		run.Stage = "clean-workspace"
		run.RecordCount = 42
		run.FinishedAt = &finished
		_, err = store.ImportRun().Update(ctx, *run)
		Expect(err).To(BeNil())

		got, err := store.ImportRun().Get(ctx, run.ID)
		Expect(err).To(BeNil())
		Expect(got.Status).To(Equal(model.ImportRunStatusCompleted))
		Expect(got.RecordCount).To(Equal(int64(42)))
		Expect(got.FinishedAt).NotTo(BeNil())

		_, err = store.ImportRun().Create(ctx, model.ImportRun{
			AgencyKey: "bart",
			URL:       "http://example.com/bart.zip",
			Status:    model.ImportRunStatusFailed,
			StartedAt: time.Now(),
		})
		Expect(err).To(BeNil())

		runs, err := store.ImportRun().List(ctx, st.NewImportRunQueryFilter().ByAgencyKey("caltrain"), nil)
		Expect(err).To(BeNil())
		Expect(runs).To(HaveLen(1))

		runs, err = store.ImportRun().List(ctx, st.NewImportRunQueryFilter().ByStatus(model.ImportRunStatusFailed), st.NewImportRunQueryOptions().WithLatestFirst().WithLimit(5))
		Expect(err).To(BeNil())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].AgencyKey).To(Equal("bart"))
	})

	It("returns not found for unknown runs", func() {
		_, err := store.ImportRun().Get(context.TODO(), uuid.New())
		Expect(errors.Is(err, st.ErrRecordNotFound)).To(BeTrue())
	})
})
