package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/crownline/pageant-manager/internal/entity"
	"github.com/jmoiron/sqlx"
)

type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	// Enquiries is the record-store contract consumed by the triage core.
	// All writes are partial: only the changed column plus updated_at.
	Enquiries interface {
		// GetEnquiries returns the full record set ordered newest-first.
		GetEnquiries(ctx context.Context) ([]entity.Enquiry, error)
		// GetEnquiryById returns a single enquiry regardless of its flags.
		GetEnquiryById(ctx context.Context, id int) (entity.Enquiry, error)
		// AddEnquiry inserts one record per submitted contact form.
		AddEnquiry(ctx context.Context, enq *entity.EnquiryInsert, attachmentURL string) (int, error)
		// SetFlag updates one flag on one record and refreshes updated_at.
		SetFlag(ctx context.Context, id int, flag entity.EnquiryFlag, value bool) error
		// SetFlagBulk sets one flag to true on every given id in a single
		// statement and refreshes updated_at.
		SetFlagBulk(ctx context.Context, ids []int, flag entity.EnquiryFlag) error
		// UpdateStatus moves the advisory workflow status, independent of flags.
		UpdateStatus(ctx context.Context, id int, status entity.EnquiryStatus) error
	}

	Candidates interface {
		AddCandidate(ctx context.Context, c *entity.CandidateInsert, photoURL string) (string, error)
		GetCandidatesPaged(ctx context.Context, limit, offset int, orderFactor entity.OrderFactor, filters entity.CandidateFilters) ([]entity.Candidate, int, error)
		GetCandidateByReference(ctx context.Context, ref string) (entity.Candidate, error)
		UpdateCandidateStatus(ctx context.Context, id int, status entity.CandidateStatus) error
	}

	Franchise interface {
		AddFranchiseApplication(ctx context.Context, f *entity.FranchiseApplicationInsert) (string, error)
		GetFranchiseApplicationsPaged(ctx context.Context, limit, offset int, orderFactor entity.OrderFactor, status *entity.FranchiseStatus) ([]entity.FranchiseApplication, int, error)
		GetFranchiseApplicationById(ctx context.Context, id int) (entity.FranchiseApplication, error)
		UpdateFranchiseStatus(ctx context.Context, id int, status entity.FranchiseStatus) error
	}

	News interface {
		AddNewsArticle(ctx context.Context, n *entity.NewsArticleInsert) (int, error)
		UpdateNewsArticle(ctx context.Context, id int, n *entity.NewsArticleInsert) error
		PublishNewsArticle(ctx context.Context, id int, publish bool) error
		DeleteNewsArticleById(ctx context.Context, id int) error
		GetNewsPaged(ctx context.Context, limit, offset int, publishedOnly bool) ([]entity.NewsArticle, int, error)
		GetNewsArticleBySlug(ctx context.Context, slug string) (entity.NewsArticle, error)
	}

	Repository interface {
		Enquiries() Enquiries
		Candidates() Candidates
		Franchise() Franchise
		News() News
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		Ping(ctx context.Context) error
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// FileStore uploads submitted files to the blob store and returns public
	// CDN URLs.
	FileStore interface {
		UploadContentImage(ctx context.Context, rawB64Image, folder, imageName string) (string, error)
		UploadFile(ctx context.Context, raw []byte, folder, fileName, contentType string) (string, error)
		GetBaseFolder() string
	}
)
