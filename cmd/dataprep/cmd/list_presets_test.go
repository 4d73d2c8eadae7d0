package cmd

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ob-flow/dataprep/internal/presets"
)

var _ = Describe("list presets subcommand", func() {
	Context("When formatting presets for print", func() {
		It("should include every preset on its own line", func() {
			buf := strings.Builder{}
			printPresets(&buf, presets.Default())

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			Expect(len(lines)).To(Equal(len(presets.Default()) + 1)) // account for the heading.
		})

		It("should include the overrides when a preset carries them", func() {
			seed := int64(7)
			buf := strings.Builder{}
			printPresets(&buf, []presets.Preset{
				{Name: "weekly", Dataset: "levine32", OutputName: "weekly_run", Seed: &seed},
			})

			Expect(buf.String()).To(ContainSubstring("- weekly: dataset levine32, output name weekly_run, seed 7"))
		})
	})

	Context("When executing the cobra command", func() {
		BeforeEach(createAndCleanupDirForArtifactsAndLogs)
		It("should list the built-in presets", func() {
			out, err := executeCommand(listPresetsCmd())
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("These are the available import presets:"))
			Expect(out).To(ContainSubstring("- levine32: dataset levine32"))
		})
	})
})
