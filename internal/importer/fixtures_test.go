package importer_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spritesoftware/node-gtfs/internal/config"
	"github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var feed = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"CT,Caltrain,http://caltrain.com,America/Los_Angeles\n",
	"routes.txt": "route_id,route_short_name,route_type\n" +
		"R,Local,2\n",
	"trips.txt": "route_id,service_id,trip_id,direction_id,shape_id\n" +
		"R,WK,T1,0,A\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:00:00,08:00:00,S1,1\n" +
		"T1,08:10:00,08:10:00,S2,two\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"S1,First,0,0\n" +
		"S2,Second,1,1\n" +
		"S3,Bad,x,2\n",
	"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
		"A,0,0,1\n" +
		"A,0,1,2\n" +
		"B,2,2,1\n" +
		"B,2,3,2\n",
}

// feedRecords is the number of rows in feed.
const feedRecords = 12

func writeFeed(path string, files map[string]string) {
	f, err := os.Create(path)
	Expect(err).To(BeNil())
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		Expect(err).To(BeNil())
		_, err = fw.Write([]byte(content))
		Expect(err).To(BeNil())
	}
	Expect(w.Close()).To(Succeed())
}

func newTestStore() store.Store {
	cfg := config.NewDefault()
	cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "gtfs.db")

	db, err := store.InitDB(cfg)
	Expect(err).To(BeNil())

	s := store.NewStore(db)
	Expect(s.InitialMigration()).To(Succeed())
	return s
}

func count(s store.Store, table, agencyKey string) int64 {
	n, err := s.Records().Count(context.TODO(), table, agencyKey)
	Expect(err).To(BeNil())
	return n
}

// failingRecords rejects every insert into table and every purge of
// purgeTable.
type failingRecords struct {
	store.Records
	table      string
	purgeTable string
	attempts   int
}

func (f *failingRecords) DeleteByAgencyKey(ctx context.Context, table string, agencyKey string) (int64, error) {
	if table == f.purgeTable {
		return 0, errors.New("lock timeout")
	}
	return f.Records.DeleteByAgencyKey(ctx, table, agencyKey)
}

func (f *failingRecords) Insert(ctx context.Context, record model.Record) error {
	if record.TableName() == f.table {
		f.attempts++
		return errors.New("disk full")
	}
	return f.Records.Insert(ctx, record)
}

type failingStore struct {
	store.Store
	records *failingRecords
}

func (f *failingStore) Records() store.Records {
	return f.records
}
