package expense

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltJournal", func() {
	var (
		tempDir string
		journal *BoltJournal
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "smartreceipt-journal-*")
		Expect(err).NotTo(HaveOccurred())

		journal, err = NewBoltJournal(filepath.Join(tempDir, "journal.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		journal.Close()
		os.RemoveAll(tempDir)
	})

	It("round-trips an entry", func() {
		entry := &JournalEntry{
			ID:         "abc12345",
			ReceivedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			SourceFile: "paragon.jpg",
			StoredFile: "20240115_103000_abc12345.jpg",
			ItemCount:  3,
			DurationMS: 1520,
			Status:     StatusCompleted,
		}
		Expect(journal.Append(entry)).To(Succeed())

		got, err := journal.Get("abc12345")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(entry))
	})

	It("returns an error for a missing entry", func() {
		_, err := journal.Get("missing")
		Expect(err).To(HaveOccurred())
	})

	It("lists entries newest first", func() {
		older := &JournalEntry{ID: "older", ReceivedAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), Status: StatusCompleted}
		newer := &JournalEntry{ID: "newer", ReceivedAt: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC), Status: StatusFailed}
		Expect(journal.Append(older)).To(Succeed())
		Expect(journal.Append(newer)).To(Succeed())

		entries, err := journal.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].ID).To(Equal("newer"))
		Expect(entries[1].ID).To(Equal("older"))
	})

	It("overwrites an entry appended under the same id", func() {
		Expect(journal.Append(&JournalEntry{ID: "abc12345", Status: StatusFailed})).To(Succeed())
		Expect(journal.Append(&JournalEntry{ID: "abc12345", Status: StatusCompleted})).To(Succeed())

		got, err := journal.Get("abc12345")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(StatusCompleted))

		entries, err := journal.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})
