package receipt

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			filename  string
			savedName string
			err       error
		)

		BeforeEach(func() {
			filename = "test.jpg"
		})

		JustBeforeEach(func() {
			savedName, err = storage.Save(filename, []byte("test file content"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the stored name", func() {
				Expect(savedName).To(Equal(filename))
			})

			It("should save the file to disk", func() {
				Expect(filepath.Join(tmpDir, filename)).To(BeAnExistingFile())
			})
		})

		When("the name contains directories", func() {
			BeforeEach(func() {
				filename = "../escape.jpg"
			})

			It("keeps the file inside the storage directory", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedName).To(Equal("escape.jpg"))
				Expect(filepath.Join(tmpDir, "escape.jpg")).To(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		When("file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("test.jpg", []byte("test file content"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the file data", func() {
				data, err := storage.Get("test.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("test file content"))
			})
		})

		When("file does not exist", func() {
			It("returns ErrFileNotFound", func() {
				_, err := storage.Get("nonexistent.jpg")
				Expect(err).To(MatchError(ErrFileNotFound))
			})
		})
	})

	Describe("Delete", func() {
		When("file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("test.jpg", []byte("test file content"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the file", func() {
				Expect(storage.Delete("test.jpg")).To(Succeed())
				Expect(filepath.Join(tmpDir, "test.jpg")).NotTo(BeAnExistingFile())
			})
		})

		When("file does not exist", func() {
			It("returns ErrFileNotFound", func() {
				Expect(storage.Delete("nonexistent.jpg")).To(MatchError(ErrFileNotFound))
			})
		})
	})
})
