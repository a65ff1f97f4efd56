package expense

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DebugStorage", func() {
	var (
		tempDir string
		storage *DebugStorage
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "smartreceipt-storage-*")
		Expect(err).NotTo(HaveOccurred())

		storage, err = NewDebugStorage(filepath.Join(tempDir, "debug"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("creates the debug directory", func() {
		info, err := os.Stat(filepath.Join(tempDir, "debug"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("saves a file and returns its full path", func() {
		path, err := storage.Save("20240115_103000_abc12345.jpg", []byte("image-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(tempDir, "debug", "20240115_103000_abc12345.jpg")))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image-bytes")))
	})

	It("computes artifact paths without writing", func() {
		path := storage.Path("summary.txt")
		Expect(path).To(Equal(filepath.Join(tempDir, "debug", "summary.txt")))
		_, err := os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
