package db

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/domain/qrcode"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements qrcode.Repository plus the session store used
// by the admin auth middleware and the webhook endpoint.
type SQLiteRepository struct {
	db *gorm.DB
}

// QRCodeModel is the GORM model for the QRCode table
type QRCodeModel struct {
	ID               uint   `gorm:"primaryKey"`
	Shop             string `gorm:"index;not null"`
	Title            string `gorm:"not null"`
	ProductID        string `gorm:"not null"`
	ProductVariantID string
	ProductHandle    string
	Destination      string `gorm:"not null"`
	Scans            uint
	CreatedAt        time.Time
}

// SessionModel is the GORM model for the Session table. The rows are written
// by the auth collaborator; this repository only resolves tokens and purges
// a shop's sessions on uninstall.
type SessionModel struct {
	ID          string `gorm:"primaryKey"`
	Shop        string `gorm:"index;not null"`
	AccessToken string
	Expires     *time.Time
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteRepository opens the database, migrates the schema and returns
// the repository.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	ctx := context.Background()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataDBPath: dbPath,
		},
	})

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataDBPath: dbPath,
			},
		})
		return nil, err
	}

	// SQLite allows a single writer; one pooled connection serializes
	// concurrent scan increments without "database is locked" failures.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&QRCodeModel{}, &SessionModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataDBPath: dbPath,
		},
	})

	return &SQLiteRepository{db: gdb}, nil
}

func toModel(qr *qrcode.QRCode) QRCodeModel {
	return QRCodeModel{
		ID:               qr.ID,
		Shop:             qr.Shop,
		Title:            qr.Title,
		ProductID:        qr.ProductID,
		ProductVariantID: string(qr.ProductVariantID),
		ProductHandle:    qr.ProductHandle,
		Destination:      string(qr.Destination),
		Scans:            qr.Scans,
		CreatedAt:        qr.CreatedAt,
	}
}

func toDomain(m *QRCodeModel) *qrcode.QRCode {
	return &qrcode.QRCode{
		ID:               m.ID,
		Shop:             m.Shop,
		Title:            m.Title,
		ProductID:        m.ProductID,
		ProductVariantID: qrcode.VariantGID(m.ProductVariantID),
		ProductHandle:    m.ProductHandle,
		Destination:      qrcode.Destination(m.Destination),
		Scans:            m.Scans,
		CreatedAt:        m.CreatedAt,
	}
}

// Create persists a new record. The store assigns the id.
func (r *SQLiteRepository) Create(ctx context.Context, qr *qrcode.QRCode) error {
	model := toModel(qr)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to insert QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataShop:  qr.Shop,
				constant.DataTitle: qr.Title,
			},
		})
		return err
	}

	qr.ID = model.ID
	qr.CreatedAt = model.CreatedAt

	return nil
}

// FindByID retrieves a record by its id
func (r *SQLiteRepository) FindByID(ctx context.Context, id uint) (*qrcode.QRCode, error) {
	var model QRCodeModel

	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		appLogger.CtxInfo(ctx, "QR code not found", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindByID,
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return nil, errors.New(constant.ErrQRCodeNotFound)
	}
	if err != nil {
		appLogger.CtxError(ctx, "Database error while looking up QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindByID,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return nil, err
	}

	return toDomain(&model), nil
}

// FindByShop retrieves all records for the tenant, newest id first
func (r *SQLiteRepository) FindByShop(ctx context.Context, shop string) ([]*qrcode.QRCode, error) {
	var models []QRCodeModel

	err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("id desc").
		Find(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Database error while listing QR codes", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindByShop,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataShop: shop,
			},
		})
		return nil, err
	}

	qrs := make([]*qrcode.QRCode, len(models))
	for i := range models {
		qrs[i] = toDomain(&models[i])
	}

	return qrs, nil
}

// Update overwrites the merchant-editable columns of an existing record.
// Scans and created_at are deliberately not in the column list.
func (r *SQLiteRepository) Update(ctx context.Context, qr *qrcode.QRCode) error {
	result := r.db.WithContext(ctx).
		Model(&QRCodeModel{}).
		Where("id = ?", qr.ID).
		Updates(map[string]interface{}{
			"title":              qr.Title,
			"product_id":         qr.ProductID,
			"product_variant_id": string(qr.ProductVariantID),
			"product_handle":     qr.ProductHandle,
			"destination":        string(qr.Destination),
		})
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to update QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBUpdate,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: qr.ID,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New(constant.ErrQRCodeNotFound)
	}

	return nil
}

// Delete removes a record by id. A missing id is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&QRCodeModel{}, id)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to delete QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBDelete,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return result.Error
	}

	appLogger.CtxDebug(ctx, "QR code delete executed", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataQRCodeID:     id,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// IncrementScans bumps the scan counter in a single UPDATE statement so
// concurrent scans of the same id never lose increments.
func (r *SQLiteRepository) IncrementScans(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Exec(`UPDATE qr_code_models SET scans = scans + 1 WHERE id = ?`, id)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to increment scan count", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIncrementScans,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBIncrement,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return result.Error
	}

	if result.RowsAffected == 0 {
		appLogger.CtxWarn(ctx, "No rows affected when incrementing scans", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIncrementScans,
			Data: map[string]interface{}{
				constant.DataQRCodeID: id,
			},
		})
		return errors.New(constant.ErrQRCodeNotFound)
	}

	return nil
}

// ShopForToken resolves an admin session token to its owning shop. Expired
// sessions do not resolve.
func (r *SQLiteRepository) ShopForToken(ctx context.Context, token string) (string, error) {
	var model SessionModel

	err := r.db.WithContext(ctx).First(&model, "id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.New(constant.ErrSessionNotFound)
	}
	if err != nil {
		appLogger.CtxError(ctx, "Database error while resolving session", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSessions,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return "", err
	}

	if model.Expires != nil && model.Expires.Before(time.Now()) {
		return "", errors.New(constant.ErrSessionNotFound)
	}

	return model.Shop, nil
}

// DeleteSessionsByShop removes every session for the tenant. Called when the
// app is uninstalled from a shop.
func (r *SQLiteRepository) DeleteSessionsByShop(ctx context.Context, shop string) error {
	result := r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&SessionModel{})
	if result.Error != nil {
		appLogger.CtxError(ctx, "Failed to delete sessions", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSessions,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBDelete,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataShop: shop,
			},
		})
		return result.Error
	}

	appLogger.CtxInfo(ctx, "Sessions deleted for shop", appLogger.LoggerInfo{
		ContextFunction: constant.CtxSessions,
		Data: map[string]interface{}{
			constant.DataShop:         shop,
			constant.DataRowsAffected: result.RowsAffected,
		},
	})

	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.Error("Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	return sqlDB.Close()
}
