package verify_test

import (
	"archive/tar"
	"compress/gzip"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/ob-flow/dataprep/artifacts"
	"github.com/ob-flow/dataprep/internal/verify"
)

func writeTestArchive(fs afero.Fs, path string, names ...string) {
	f, err := fs.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer f.Close()

	gzw := gzip.NewWriter(f)
	defer gzw.Close()
	tw := tar.NewWriter(gzw)
	defer tw.Close()

	for _, name := range names {
		contents := []byte("event data for " + name)
		err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(contents)),
		})
		Expect(err).ToNot(HaveOccurred())
		_, err = tw.Write(contents)
		Expect(err).ToNot(HaveOccurred())
	}
}

var _ = Describe("Archive verification", func() {
	var fs afero.Fs
	var verifier *verify.Verifier
	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		verifier = verify.NewVerifier(verify.WithFs(fs))
	})

	When("the archive does not exist", func() {
		It("should fail without writing a listing artifact", func() {
			aw, err := artifacts.NewMapWriter()
			Expect(err).ToNot(HaveOccurred())
			ctx := artifacts.ContextWithWriter(context.Background(), aw)

			report, err := verifier.Archive(ctx, "out/data/data_import/missing.data.tar.gz", ".fcs")
			Expect(err).To(MatchError(verify.ErrArchiveNotFound))
			Expect(report).To(BeNil())
			Expect(aw.Files()).To(BeEmpty())
		})
	})

	When("every entry carries the expected suffix", func() {
		It("should report zero mismatches", func() {
			writeTestArchive(fs, "demo.data.tar.gz", "a.fcs", "b.fcs")

			report, err := verifier.Archive(context.Background(), "demo.data.tar.gz", ".fcs")
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Total).To(Equal(2))
			Expect(report.Mismatched).To(BeZero())
			Expect(report.Passed()).To(BeTrue())
		})
	})

	When("suffix casing differs", func() {
		It("should match case-insensitively and count only true mismatches", func() {
			writeTestArchive(fs, "demo.data.tar.gz", "a.fcs", "b.FCS", "c.txt")

			report, err := verifier.Archive(context.Background(), "demo.data.tar.gz", ".fcs")
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Total).To(Equal(3))
			Expect(report.Mismatched).To(Equal(1))
			Expect(report.Mismatches).To(ConsistOf("c.txt"))
			Expect(report.Passed()).To(BeFalse())
		})
	})

	When("listing entries", func() {
		It("should preserve archive order and persist the listing artifact", func() {
			writeTestArchive(fs, "demo.data.tar.gz", "z.fcs", "a.fcs", "m.fcs")

			aw, err := artifacts.NewMapWriter()
			Expect(err).ToNot(HaveOccurred())
			ctx := artifacts.ContextWithWriter(context.Background(), aw)

			report, err := verifier.Archive(ctx, "demo.data.tar.gz", ".fcs")
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Entries).To(Equal([]string{"z.fcs", "a.fcs", "m.fcs"}))
			Expect(aw.Files()).To(HaveKey(artifacts.EntryListingFilename))
		})
	})

	When("the file is not a gzip archive", func() {
		It("should fail", func() {
			Expect(afero.WriteFile(fs, "bogus.data.tar.gz", []byte("not a tarball"), 0o644)).To(Succeed())

			_, err := verifier.Archive(context.Background(), "bogus.data.tar.gz", ".fcs")
			Expect(err).To(HaveOccurred())
		})
	})
})
