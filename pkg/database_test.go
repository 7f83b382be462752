package flashfinder

import (
	"path/filepath"
	"testing"

	sqlx "github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE ChannelMapping (MinRun INTEGER, MaxRun INTEGER, ElecID INTEGER, SensorID INTEGER);
CREATE TABLE OpDetPositions (MinRun INTEGER, MaxRun INTEGER, SensorID INTEGER, X REAL, Y REAL, Z REAL);
CREATE TABLE OpDetWires (MinRun INTEGER, MaxRun INTEGER, SensorID INTEGER, Plane INTEGER, Wire INTEGER);
CREATE TABLE SPESizes (MinRun INTEGER, MaxRun INTEGER, SensorID INTEGER, SPE REAL);

INSERT INTO ChannelMapping VALUES (0, 100, 30, 0), (0, 100, 31, 1), (0, 100, 32, 2);
INSERT INTO ChannelMapping VALUES (101, 200, 40, 0), (101, 200, 41, 1);

INSERT INTO OpDetPositions VALUES (0, 100, 0, -10, 1, 2), (0, 100, 1, -10, 3, 4), (0, 100, 2, -10, 5, 6);
INSERT INTO OpDetPositions VALUES (101, 200, 0, -20, 1, 2), (101, 200, 1, -20, 3, 4);

INSERT INTO OpDetWires VALUES (0, 100, 0, 0, 100), (0, 100, 0, 1, 200);
INSERT INTO OpDetWires VALUES (0, 100, 1, 0, 101), (0, 100, 1, 1, 201);
INSERT INTO OpDetWires VALUES (0, 100, 2, 0, 102), (0, 100, 2, 1, 202);

INSERT INTO SPESizes VALUES (0, 100, 0, 20), (0, 100, 1, 21), (0, 100, 2, 22);
INSERT INTO SPESizes VALUES (101, 200, 0, 30), (101, 200, 1, 31);
`

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "calibration.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestLoadDatabase(t *testing.T) {
	db := openTestDB(t)

	calib, err := LoadDatabase(db, 50)
	require.NoError(t, err)

	geom := calib.Geometry
	assert.Equal(t, 3, geom.NChannels())
	assert.Equal(t, 2, geom.NPlanes())
	assert.Equal(t, [3]float64{-10, 5, 6}, geom.Center(2))
	assert.Equal(t, 201, geom.NearestWire(1, 1))
	assert.Equal(t, map[int]int{30: 0, 31: 1, 32: 2}, calib.ChannelMap.ToChannel)
	assert.Equal(t, 22.0, calib.SPESize[2])
}

func TestLoadDatabaseRunRange(t *testing.T) {
	db := openTestDB(t)

	calib, err := LoadDatabase(db, 150)
	require.NoError(t, err)

	assert.Equal(t, 2, calib.Geometry.NChannels())
	assert.Equal(t, 0, calib.Geometry.NPlanes())
	assert.Equal(t, [3]float64{-20, 3, 4}, calib.Geometry.Center(1))
	assert.Equal(t, map[int]int{40: 0, 41: 1}, calib.ChannelMap.ToChannel)
	assert.Equal(t, 31.0, calib.SPESize[1])
}

func TestLoadDatabaseMissingTable(t *testing.T) {
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = LoadDatabase(db, 1)
	assert.Error(t, err)
}

func TestLoadCalibrationWithoutDatabase(t *testing.T) {
	filename := writeFile(t, "geometry.json", `{"n_planes": 1, "channels": [
		{"channel": 0, "elec_id": 5, "spe": 10, "wires": [3]}
	]}`)
	config := Configuration{NoDB: true, GeometryFile: filename}

	calib, err := LoadCalibration(config)
	require.NoError(t, err)
	assert.Equal(t, 1, calib.Geometry.NChannels())
	assert.Equal(t, 0, calib.ChannelMap.ToChannel[5])
}
