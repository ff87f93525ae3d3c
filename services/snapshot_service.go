package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-floor/models"
)

// FloorSnapshot -> seluruh state lantai sebagai data polos, datar per
// tabel supaya restore tidak menyentuh entitas katalog/staff eksternal.
type FloorSnapshot struct {
	SnapshotID       string                      `json:"snapshot_id"`
	TakenAt          time.Time                   `json:"taken_at"`
	Tables           []models.Table              `json:"tables"`
	Blocks           []models.PartyBlock         `json:"blocks"`
	Orders           []models.Order              `json:"orders"`
	OrderItems       []models.OrderItem          `json:"order_items"`
	Chits            []models.Chit               `json:"chits"`
	ChitItems        []models.ChitItem           `json:"chit_items"`
	History          []models.TableHistoryRecord `json:"history"`
	HistoryChits     []models.HistoryChit        `json:"history_chits"`
	HistoryChitItems []models.HistoryChitItem    `json:"history_chit_items"`
}

// SnapshotService mengekspor dan memulihkan state inti; media penyimpanan
// (file, database lain) adalah urusan collaborator.
type SnapshotService struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewSnapshotService(db *gorm.DB, clock clockwork.Clock) *SnapshotService {
	return &SnapshotService{DB: db, Clock: clock}
}

// Export -> baca seluruh entitas dalam satu transaksi (snapshot konsisten)
func (ss *SnapshotService) Export() (*FloorSnapshot, error) {
	snap := &FloorSnapshot{
		SnapshotID: uuid.NewString(),
		TakenAt:    ss.Clock.Now(),
	}

	err := ss.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id asc").Find(&snap.Tables).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.Blocks).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.Orders).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.OrderItems).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.Chits).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.ChitItems).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.History).Error; err != nil {
			return err
		}
		if err := tx.Order("id asc").Find(&snap.HistoryChits).Error; err != nil {
			return err
		}
		return tx.Order("id asc").Find(&snap.HistoryChitItems).Error
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore -> ganti seluruh state inti dengan isi snapshot, satu transaksi.
// ID asli dipertahankan supaya relasi antar entitas tetap utuh.
func (ss *SnapshotService) Restore(snap *FloorSnapshot) error {
	return ss.DB.Transaction(func(tx *gorm.DB) error {
		// Hapus anak dulu baru induk
		wipe := []interface{}{
			&models.HistoryChitItem{}, &models.HistoryChit{}, &models.TableHistoryRecord{},
			&models.ChitItem{}, &models.Chit{},
			&models.OrderItem{}, &models.Order{},
			&models.PartyBlock{}, &models.Table{},
		}
		for _, m := range wipe {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}

		// Masukkan induk dulu; Omit(Associations) supaya GORM tidak ikut
		// menulis entitas katalog/staff yang menempel
		if err := createAll(tx, snap.Tables); err != nil {
			return err
		}
		if err := createAll(tx, snap.Blocks); err != nil {
			return err
		}
		if err := createAll(tx, snap.Orders); err != nil {
			return err
		}
		if err := createAll(tx, snap.OrderItems); err != nil {
			return err
		}
		if err := createAll(tx, snap.Chits); err != nil {
			return err
		}
		if err := createAll(tx, snap.ChitItems); err != nil {
			return err
		}
		if err := createAll(tx, snap.History); err != nil {
			return err
		}
		if err := createAll(tx, snap.HistoryChits); err != nil {
			return err
		}
		return createAll(tx, snap.HistoryChitItems)
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
