package presets_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/ob-flow/dataprep/internal/presets"
)

var _ = Describe("Preset resolution", func() {
	var fs afero.Fs
	BeforeEach(func() {
		fs = afero.NewMemMapFs()
	})

	When("no presets file exists", func() {
		It("should fall back to the built-in presets", func() {
			loaded, err := presets.Load(fs, "presets.yaml")
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded).To(Equal(presets.Default()))
		})
	})

	When("a presets file exists", func() {
		It("should load and sort the presets", func() {
			doc := []byte(`presets:
- name: weekly
  dataset: levine32
  outputName: weekly_run
  seed: 7
- name: adhoc
  dataset: demo
`)
			Expect(afero.WriteFile(fs, "presets.yaml", doc, 0o644)).To(Succeed())

			loaded, err := presets.Load(fs, "presets.yaml")
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded).To(HaveLen(2))
			Expect(loaded[0].Name).To(Equal("adhoc"))
			Expect(loaded[1].Name).To(Equal("weekly"))
			Expect(loaded[1].OutputName).To(Equal("weekly_run"))
			Expect(*loaded[1].Seed).To(Equal(int64(7)))
		})

		It("should reject presets without a dataset", func() {
			doc := []byte(`presets:
- name: broken
`)
			Expect(afero.WriteFile(fs, "presets.yaml", doc, 0o644)).To(Succeed())

			_, err := presets.Load(fs, "presets.yaml")
			Expect(err).To(HaveOccurred())
		})
	})

	When("resolving a preset by name", func() {
		It("should find known presets and reject unknown ones", func() {
			preset, err := presets.Find(presets.Default(), "levine32")
			Expect(err).ToNot(HaveOccurred())
			Expect(preset.Dataset).To(Equal("levine32"))

			_, err = presets.Find(presets.Default(), "nonexistent")
			Expect(err).To(HaveOccurred())
		})
	})
})
