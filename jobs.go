package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job represents one recognition run over an uploaded document.
type Job struct {
	ID        string    `json:"id"`
	RecordID  uint      `json:"recordId"`
	Status    string    `json:"status"` // "pending", "in_progress", "completed", "failed"
	Result    string    `json:"result"` // recognized text or error message
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobStore manages jobs and their statuses
type JobStore struct {
	sync.RWMutex
	jobs map[string]*Job
}

var (
	jobStore = &JobStore{
		jobs: make(map[string]*Job),
	}
	jobQueue = make(chan *Job, 100) // Buffered channel with capacity of 100 jobs
)

func generateJobID() string {
	return uuid.New().String()
}

func (store *JobStore) addJob(job *Job) {
	store.Lock()
	defer store.Unlock()
	store.jobs[job.ID] = job
	log.Infof("Job added: %s (record %d)", job.ID, job.RecordID)
}

func (store *JobStore) getJob(jobID string) (*Job, bool) {
	store.RLock()
	defer store.RUnlock()
	job, exists := store.jobs[jobID]
	return job, exists
}

// GetAllJobs returns all known jobs, newest first.
func (store *JobStore) GetAllJobs() []*Job {
	store.RLock()
	defer store.RUnlock()

	jobs := make([]*Job, 0, len(store.jobs))
	for _, job := range store.jobs {
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	return jobs
}

func (store *JobStore) updateJobStatus(jobID, status, result string) {
	store.Lock()
	defer store.Unlock()
	if job, exists := store.jobs[jobID]; exists {
		job.Status = status
		if result != "" {
			job.Result = result
		}
		job.UpdatedAt = time.Now()
		log.Infof("Job %s status updated: %s", jobID, status)
	}
}

func startWorkerPool(app *App, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go func(workerID int) {
			log.Infof("Worker %d started", workerID)
			for job := range jobQueue {
				log.Infof("Worker %d processing job: %s", workerID, job.ID)
				processJob(app, job)
			}
		}(i)
	}
}

func processJob(app *App, job *Job) {
	jobStore.updateJobStatus(job.ID, "in_progress", "")
	if err := UpdateOCRRecord(app.Database, job.RecordID, "processing", "", ""); err != nil {
		log.Errorf("Failed to mark record %d as processing: %v", job.RecordID, err)
	}

	record, err := GetOCRRecord(app.Database, job.RecordID)
	if err != nil {
		log.Errorf("Failed to load record %d for job %s: %v", job.RecordID, job.ID, err)
		jobStore.updateJobStatus(job.ID, "failed", err.Error())
		return
	}

	text, err := app.RecognizeDocument(context.Background(), record.FilePath)
	if err != nil {
		log.Errorf("Recognition failed for job %s (record %d): %v", job.ID, job.RecordID, err)
		jobStore.updateJobStatus(job.ID, "failed", err.Error())
		if dbErr := UpdateOCRRecord(app.Database, job.RecordID, "failed", "", err.Error()); dbErr != nil {
			log.Errorf("Failed to mark record %d as failed: %v", job.RecordID, dbErr)
		}
		return
	}

	if err := UpdateOCRRecord(app.Database, job.RecordID, "completed", text, ""); err != nil {
		log.Errorf("Failed to store result for record %d: %v", job.RecordID, err)
		jobStore.updateJobStatus(job.ID, "failed", err.Error())
		return
	}

	jobStore.updateJobStatus(job.ID, "completed", text)
	log.Infof("Job completed: %s", job.ID)
}
