package flashfinder

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type ChannelMappingEntry struct {
	ElecID   int `db:"ElecID"`
	SensorID int `db:"SensorID"`
}

type PositionEntry struct {
	SensorID int     `db:"SensorID"`
	X        float64 `db:"X"`
	Y        float64 `db:"Y"`
	Z        float64 `db:"Z"`
}

type WireEntry struct {
	SensorID int `db:"SensorID"`
	Plane    int `db:"Plane"`
	Wire     int `db:"Wire"`
}

type SPEEntry struct {
	SensorID int     `db:"SensorID"`
	SPE      float64 `db:"SPE"`
}

const (
	channelMappingQuery = "SELECT ElecID, SensorID FROM ChannelMapping WHERE MinRun <= ? and MaxRun >= ? ORDER BY SensorID"
	positionsQuery      = "SELECT SensorID, X, Y, Z FROM OpDetPositions WHERE MinRun <= ? and MaxRun >= ? ORDER BY SensorID"
	wiresQuery          = "SELECT SensorID, Plane, Wire FROM OpDetWires WHERE MinRun <= ? and MaxRun >= ? ORDER BY SensorID, Plane"
	speQuery            = "SELECT SensorID, SPE FROM SPESizes WHERE MinRun <= ? and MaxRun >= ? ORDER BY SensorID"
)

// LoadDatabase reads the channel map, optical detector positions, nearest
// wires and SPE sizes valid for runNumber.
func LoadDatabase(dbConn *sqlx.DB, runNumber int) (*Calibration, error) {
	mapping, err := queryRows[ChannelMappingEntry](dbConn, channelMappingQuery, runNumber, "channel mapping")
	if err != nil {
		return nil, fmt.Errorf("error getting channel mapping from database: %w", err)
	}
	positions, err := queryRows[PositionEntry](dbConn, positionsQuery, runNumber, "optical detector positions")
	if err != nil {
		return nil, fmt.Errorf("error getting optical detector positions from database: %w", err)
	}
	wires, err := queryRows[WireEntry](dbConn, wiresQuery, runNumber, "nearest wires")
	if err != nil {
		return nil, fmt.Errorf("error getting nearest wires from database: %w", err)
	}
	spes, err := queryRows[SPEEntry](dbConn, speQuery, runNumber, "SPE sizes")
	if err != nil {
		return nil, fmt.Errorf("error getting SPE sizes from database: %w", err)
	}

	nChannels := 0
	for _, p := range positions {
		if p.SensorID < 0 {
			return nil, fmt.Errorf("position of sensor %d: %w", p.SensorID, ErrInvalidChannel)
		}
		if p.SensorID+1 > nChannels {
			nChannels = p.SensorID + 1
		}
	}
	nPlanes := 0
	for _, w := range wires {
		if w.Plane+1 > nPlanes {
			nPlanes = w.Plane + 1
		}
	}

	calib := newCalibration(nChannels, nPlanes)
	for _, m := range mapping {
		calib.ChannelMap.ToChannel[m.ElecID] = m.SensorID
		calib.ChannelMap.ToElecID[m.SensorID] = m.ElecID
	}
	for _, p := range positions {
		calib.Geometry.Centers[p.SensorID] = [3]float64{p.X, p.Y, p.Z}
	}
	for _, w := range wires {
		if w.SensorID < 0 || w.SensorID >= nChannels || w.Plane < 0 {
			message := fmt.Errorf("nearest wire for sensor %d plane %d: %w", w.SensorID, w.Plane, ErrInvalidChannel)
			logger.Error(message.Error())
			continue
		}
		calib.Geometry.Wires[w.SensorID][w.Plane] = w.Wire
	}
	for _, s := range spes {
		calib.SPESize[s.SensorID] = s.SPE
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Calibration for run %d: %d channels, %d planes, %d mapped sensors",
			runNumber, nChannels, nPlanes, len(mapping))
		logger.Info(message, "database")
	}
	return calib, nil
}

func queryRows[T any](db *sqlx.DB, query string, runNumber int, what string) ([]T, error) {
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading %s from database", what)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s (run %d)", query, runNumber)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, runNumber, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		var result T
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating DB rows: %w", err)
	}
	return results, nil
}

// LoadCalibration reads the detector calibration from the geometry file when
// the configuration disables the database, and from the database otherwise.
func LoadCalibration(config Configuration) (*Calibration, error) {
	if config.NoDB {
		return LoadGeometryFile(config.GeometryFile)
	}
	dbConn, err := ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	defer dbConn.Close()
	return LoadDatabase(dbConn, config.RunNumber)
}
