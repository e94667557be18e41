package common

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats represents run statistics for the workload loops
type Stats struct {
	StartTime time.Time

	// Update loop statistics
	UpdateIterations int64 // Completed price update iterations
	UpdatedDocs      int64 // Successfully updated documents
	UpdateErrors     int64 // Failed document updates

	// Search loop statistics
	TotalSearches      int64 // Total number of searches
	SuccessfulSearches int64 // Successful searches
	FailedSearches     int64 // Failed searches
	TotalHits          int64 // Total number of documents found
}

// NewStats creates a new statistics instance
func NewStats() *Stats {
	return &Stats{
		StartTime: time.Now(),
	}
}

// IncrementUpdateIterations increments the completed iteration counter
func (s *Stats) IncrementUpdateIterations() {
	atomic.AddInt64(&s.UpdateIterations, 1)
}

// AddUpdatedDocs adds the number of successfully updated documents
func (s *Stats) AddUpdatedDocs(count int) {
	atomic.AddInt64(&s.UpdatedDocs, int64(count))
}

// AddUpdateErrors adds the number of failed document updates
func (s *Stats) AddUpdateErrors(count int) {
	atomic.AddInt64(&s.UpdateErrors, int64(count))
}

// IncrementTotalSearches increments the total search counter
func (s *Stats) IncrementTotalSearches() {
	atomic.AddInt64(&s.TotalSearches, 1)
}

// IncrementSuccessfulSearches increments the successful search counter
func (s *Stats) IncrementSuccessfulSearches() {
	atomic.AddInt64(&s.SuccessfulSearches, 1)
}

// IncrementFailedSearches increments the failed search counter
func (s *Stats) IncrementFailedSearches() {
	atomic.AddInt64(&s.FailedSearches, 1)
}

// AddHits adds the number of documents found
func (s *Stats) AddHits(count int64) {
	atomic.AddInt64(&s.TotalHits, count)
}

// Elapsed returns the time since the run started
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// PrintSummary prints the final run statistics
func (s *Stats) PrintSummary() {
	elapsed := s.Elapsed()

	fmt.Println()
	fmt.Println("Run summary")
	fmt.Println("===========")
	fmt.Printf("Elapsed: %v\n", elapsed.Round(time.Millisecond))

	iterations := atomic.LoadInt64(&s.UpdateIterations)
	if iterations > 0 {
		fmt.Printf("Update iterations: %d\n", iterations)
		fmt.Printf("Updated documents: %d (errors: %d)\n",
			atomic.LoadInt64(&s.UpdatedDocs), atomic.LoadInt64(&s.UpdateErrors))
	}

	searches := atomic.LoadInt64(&s.TotalSearches)
	if searches > 0 {
		fmt.Printf("Searches: %d (successful: %d, failed: %d)\n",
			searches,
			atomic.LoadInt64(&s.SuccessfulSearches),
			atomic.LoadInt64(&s.FailedSearches))
		fmt.Printf("Total hits: %d\n", atomic.LoadInt64(&s.TotalHits))
	}
}
