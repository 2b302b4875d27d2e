package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"kampusku_backend/internals/configs"
)

// JobFunc = satu unit kerja batch; `now` dioper eksplisit supaya
// deterministik di test.
type JobFunc func(db *gorm.DB, cfg configs.BillingConfig, now time.Time) error

type Job struct {
	Name  string
	Every time.Duration
	Run   JobFunc
}

// Registry memegang daftar job billing secara eksplisit — dimiliki composition
// root (main), bukan singleton level modul.
type Registry struct {
	db   *gorm.DB
	cfg  configs.BillingConfig
	jobs []Job
	stop chan struct{}
}

func NewRegistry(db *gorm.DB, cfg configs.BillingConfig) *Registry {
	return &Registry{db: db, cfg: cfg, stop: make(chan struct{})}
}

func (r *Registry) Register(j Job) {
	r.jobs = append(r.jobs, j)
}

// DefaultJobs mendaftarkan tiga job standar: generate billing, update denda,
// reminder pembayaran.
func (r *Registry) DefaultJobs() *Registry {
	r.Register(Job{Name: "generate_billing", Every: 24 * time.Hour, Run: GenerateBillingJob})
	r.Register(Job{Name: "update_penalty", Every: 24 * time.Hour, Run: UpdatePenaltyJob})
	r.Register(Job{Name: "send_reminder", Every: 24 * time.Hour, Run: SendReminderJob})
	return r
}

// Start menjalankan tiap job pada ticker-nya sendiri. Job aman berjalan
// bersamaan dengan traffic live — tidak ada lock global atas ledger.
func (r *Registry) Start() {
	for _, j := range r.jobs {
		go func(j Job) {
			t := time.NewTicker(j.Every)
			defer t.Stop()
			for {
				select {
				case <-r.stop:
					return
				case now := <-t.C:
					if err := j.Run(r.db, r.cfg, now); err != nil {
						log.Printf("[JOB ERROR] %s: %v", j.Name, err)
					}
				}
			}
		}(j)
	}
	log.Printf("[JOB] Registry started: %d job terdaftar", len(r.jobs))
}

func (r *Registry) Stop() {
	close(r.stop)
}
