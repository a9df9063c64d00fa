package stubserver

import (
	"database/sql"
	"fmt"

	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS asset_types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	name TEXT NOT NULL,
	UNIQUE (category_id, name)
);
CREATE TABLE IF NOT EXISTS assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	type_name TEXT NOT NULL,
	image BLOB,
	voice BLOB
);
CREATE TABLE IF NOT EXISTS asset_locations (
	asset_id INTEGER NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	ord INTEGER NOT NULL,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	PRIMARY KEY (asset_id, ord)
);
`

// Store is the stub service's sqlite-backed storage. Categories and types
// have no standalone creation path: rows appear when an asset payload first
// references them, which is the only way the real service ever persists them.
type Store struct {
	sqlDB *sql.DB
	db    *goqu.Database
}

// OpenStore opens (and if needed initializes) the sqlite database at path.
// Use ":memory:" for tests; connections are capped at one so the in-memory
// database is shared.
func OpenStore(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB, db: goqu.New("sqlite3", sqlDB)}, nil
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}

type flatAssetRecord struct {
	ID                  int    `db:"id"`
	Name                string `db:"name"`
	Description         string `db:"description"`
	CategoryID          int    `db:"category_id"`
	CategoryName        string `db:"category_name"`
	CategoryDescription string `db:"category_description"`
	TypeName            string `db:"type_name"`
	HasImage            bool   `db:"has_image"`
	HasVoice            bool   `db:"has_voice"`
}

type locationRecord struct {
	AssetID   int     `db:"asset_id"`
	Ord       int     `db:"ord"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

func (s *Store) ListAssets() ([]models.Asset, error) {
	var records []flatAssetRecord
	query := s.db.
		From(goqu.T("assets").As("a")).
		Select(
			"a.id",
			"a.name",
			"a.description",
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("category_name"),
			goqu.I("c.description").As("category_description"),
			"a.type_name",
			goqu.L("a.image IS NOT NULL").As("has_image"),
			goqu.L("a.voice IS NOT NULL").As("has_voice"),
		).
		LeftJoin(
			goqu.T("categories").As("c"),
			goqu.On(goqu.Ex{"a.category_id": goqu.I("c.id")}),
		).
		Order(goqu.I("a.id").Asc())
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	var locations []locationRecord
	locQuery := s.db.Select("asset_id", "ord", "latitude", "longitude").From("asset_locations")
	if err := locQuery.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	byAsset := make(map[int]models.LocationSet)
	for _, loc := range locations {
		if byAsset[loc.AssetID] == nil {
			byAsset[loc.AssetID] = models.LocationSet{}
		}
		byAsset[loc.AssetID][loc.Ord] = models.Coordinate{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}
	}

	assets := make([]models.Asset, 0, len(records))
	for _, record := range records {
		asset := models.Asset{
			ID:          record.ID,
			Name:        record.Name,
			Description: record.Description,
			Category: models.Category{
				ID:          record.CategoryID,
				Name:        record.CategoryName,
				Description: record.CategoryDescription,
			},
			TypeName:  record.TypeName,
			Locations: byAsset[record.ID],
		}
		if asset.Locations == nil {
			asset.Locations = models.LocationSet{}
		}
		if record.HasImage {
			asset.ImageURL = fmt.Sprintf("/api/asset/media/image/%d/", record.ID)
		}
		if record.HasVoice {
			asset.VoiceURL = fmt.Sprintf("/api/asset/media/voice/%d/", record.ID)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// CreateAsset persists an asset payload, materializing its category and type
// rows on first appearance, and returns the assigned id.
func (s *Store) CreateAsset(asset models.Asset) (int, error) {
	categoryID, err := s.ensureCategory(asset.Category)
	if err != nil {
		return 0, err
	}
	if err := s.ensureType(categoryID, asset.TypeName); err != nil {
		return 0, err
	}

	insert := s.db.Insert("assets").
		Rows(goqu.Record{
			"name":        asset.Name,
			"description": asset.Description,
			"category_id": categoryID,
			"type_name":   asset.TypeName,
		})
	result, err := insert.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}
	assetID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve assigned asset id: %w", err)
	}

	if err := s.replaceLocations(int(assetID), asset.Locations); err != nil {
		return 0, err
	}
	return int(assetID), nil
}

// UpdateAsset rewrites an existing asset's fields and locations. Returns
// false when no asset has the given id.
func (s *Store) UpdateAsset(asset models.Asset) (bool, error) {
	categoryID, err := s.ensureCategory(asset.Category)
	if err != nil {
		return false, err
	}
	if err := s.ensureType(categoryID, asset.TypeName); err != nil {
		return false, err
	}

	update := s.db.Update("assets").
		Set(goqu.Record{
			"name":        asset.Name,
			"description": asset.Description,
			"category_id": categoryID,
			"type_name":   asset.TypeName,
		}).
		Where(goqu.Ex{"id": asset.ID})
	result, err := update.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update asset record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := s.replaceLocations(asset.ID, asset.Locations); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteAsset(assetID int) (bool, error) {
	if _, err := s.db.Delete("asset_locations").Where(goqu.Ex{"asset_id": assetID}).Executor().Exec(); err != nil {
		return false, fmt.Errorf("failed to delete asset locations: %w", err)
	}
	result, err := s.db.Delete("assets").Where(goqu.Ex{"id": assetID}).Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to delete asset record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) Categories() ([]models.Category, error) {
	var categories []models.Category
	query := s.db.Select("id", "name", "description").From("categories").Order(goqu.I("id").Asc())
	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return categories, nil
}

func (s *Store) Types(categoryID int) ([]models.AssetType, error) {
	var types []models.AssetType
	query := s.db.Select("id", "name").
		From("asset_types").
		Where(goqu.Ex{"category_id": categoryID}).
		Order(goqu.I("id").Asc())
	if err := query.Executor().ScanStructs(&types); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return types, nil
}

// SaveMedia stores an uploaded blob on the asset row. kind is "image" or
// "voice". Returns false when the asset does not exist.
func (s *Store) SaveMedia(assetID int, kind string, body []byte) (bool, error) {
	// Bind the blob as a parameter: interpolating it into the SQL text would
	// mangle non-UTF-8 bytes.
	update := s.db.Update("assets").
		Prepared(true).
		Set(goqu.Record{kind: body}).
		Where(goqu.Ex{"id": assetID})
	result, err := update.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to store %s media: %w", kind, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	return affected > 0, nil
}

// Media fetches a stored blob; ok is false when the asset is missing or the
// blob was never uploaded.
func (s *Store) Media(assetID int, kind string) ([]byte, bool, error) {
	var body []byte
	query := s.db.Select(kind).From("assets").Where(goqu.Ex{"id": assetID})
	found, err := query.Executor().ScanVal(&body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s media: %w", kind, err)
	}
	if !found || body == nil {
		return nil, false, nil
	}
	return body, true, nil
}

func (s *Store) ensureCategory(category models.Category) (int, error) {
	var id int
	query := s.db.Select("id").From("categories").Where(goqu.Ex{"name": category.Name})
	found, err := query.Executor().ScanVal(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to look up category: %w", err)
	}
	if found {
		return id, nil
	}

	insert := s.db.Insert("categories").
		Rows(goqu.Record{"name": category.Name, "description": category.Description})
	result, err := insert.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to insert category record: %w", err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve assigned category id: %w", err)
	}
	return int(newID), nil
}

func (s *Store) ensureType(categoryID int, typeName string) error {
	var id int
	query := s.db.Select("id").From("asset_types").
		Where(goqu.Ex{"category_id": categoryID, "name": typeName})
	found, err := query.Executor().ScanVal(&id)
	if err != nil {
		return fmt.Errorf("failed to look up asset type: %w", err)
	}
	if found {
		return nil
	}

	insert := s.db.Insert("asset_types").
		Rows(goqu.Record{"category_id": categoryID, "name": typeName})
	if _, err := insert.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert asset type record: %w", err)
	}
	return nil
}

func (s *Store) replaceLocations(assetID int, locations models.LocationSet) error {
	if _, err := s.db.Delete("asset_locations").Where(goqu.Ex{"asset_id": assetID}).Executor().Exec(); err != nil {
		return fmt.Errorf("failed to clear asset locations: %w", err)
	}
	for key, coord := range locations {
		insert := s.db.Insert("asset_locations").
			Rows(goqu.Record{
				"asset_id":  assetID,
				"ord":       key,
				"latitude":  coord.Latitude,
				"longitude": coord.Longitude,
			})
		if _, err := insert.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert asset location: %w", err)
		}
	}
	return nil
}
