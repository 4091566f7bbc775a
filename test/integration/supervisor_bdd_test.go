//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/config"
	"github.com/threema-ch/desktop-launcher/internal/domain"
	"github.com/threema-ch/desktop-launcher/internal/infra"
	"github.com/threema-ch/desktop-launcher/internal/supervisor"
	"github.com/threema-ch/desktop-launcher/internal/usecase"
	"github.com/threema-ch/desktop-launcher/test/fixtures"
)

var _ = Describe("Supervisor", func() {
	var (
		tmpDir     string
		profileDir string
		childArgs  []string
	)

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("fake child is a shell script")
		}

		var err error
		tmpDir, err = os.MkdirTemp("", "launcher-integration-*")
		Expect(err).NotTo(HaveOccurred())

		childArgs = []string{"--threema-profile=default", "--enable-logging"}
		root := config.ProfileRootDir(runtime.GOOS, filepath.Join(tmpDir, "data"))
		profileDir = config.ProfileDirectory(root, domain.FlavorConsumerLive, childArgs)
		Expect(profileDir).To(HaveSuffix("consumer-live-default"))

		Expect(os.MkdirAll(profileDir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(profileDir, "db.sqlite"), []byte("db"), 0644)).To(Succeed())
	})

	AfterEach(func() {
		_ = os.Chmod(profileDir, 0755)
		os.RemoveAll(tmpDir)
	})

	run := func(codes ...int) (int, *fixtures.FakeChild) {
		child := fixtures.NewFakeChild(filepath.Join(tmpDir, "bin"), profileDir, codes...)
		Expect(child.Create()).To(Succeed())

		installer := infra.NewPlatformInstaller("plan9", domain.FlavorConsumerLive, "", zap.NewNop(), nil)
		actions := usecase.NewProfileActions(infra.NewFileSystemManager(), installer, zap.NewNop())
		sup := supervisor.New(
			supervisor.Config{
				TargetPath:     child.Path(),
				Args:           childArgs,
				ProfileDir:     profileDir,
				ErrorExitDelay: 10 * time.Millisecond,
			},
			infra.NewProcessLauncherWithStreams(nil, nil),
			actions,
			zap.NewNop(),
		)
		return sup.Run(context.Background()), child
	}

	Describe("delete profile and restart", func() {
		Context("when the child exits with 9", func() {
			It("should remove the profile and relaunch with identical arguments", func() {
				code, child := run(9, 0)
				Expect(code).To(Equal(0))

				_, err := os.Stat(profileDir)
				Expect(os.IsNotExist(err)).To(BeTrue())

				invocations, err := child.Invocations()
				Expect(err).NotTo(HaveOccurred())
				Expect(invocations).To(HaveLen(2))
				Expect(invocations[1]).To(Equal(invocations[0]))
				Expect(invocations[0]).To(Equal(strings.Join(childArgs, " ")))

				states, err := child.ProfileStates()
				Expect(err).NotTo(HaveOccurred())
				Expect(states).To(Equal([]string{"present", "absent"}))
			})
		})

		Context("when the profile directory does not exist", func() {
			It("should exit with the launcher error code without relaunching", func() {
				Expect(os.RemoveAll(profileDir)).To(Succeed())

				code, child := run(9, 0)
				Expect(code).To(Equal(domain.ExitCodeLauncherError))

				invocations, err := child.Invocations()
				Expect(err).NotTo(HaveOccurred())
				Expect(invocations).To(HaveLen(1))

				states, err := child.ProfileStates()
				Expect(err).NotTo(HaveOccurred())
				Expect(states).To(Equal([]string{"absent"}))
			})
		})

		Context("when removal fails with a permission error", func() {
			It("should exit with the launcher error code and keep the directory", func() {
				if os.Geteuid() == 0 {
					Skip("root ignores directory permissions")
				}
				Expect(os.Chmod(profileDir, 0555)).To(Succeed())

				code, child := run(9, 0)
				Expect(code).To(Equal(domain.ExitCodeLauncherError))

				Expect(filepath.Join(profileDir, "db.sqlite")).To(BeARegularFile())
				invocations, err := child.Invocations()
				Expect(err).NotTo(HaveOccurred())
				Expect(invocations).To(HaveLen(1))
			})
		})
	})

	Describe("rename profile and restart", func() {
		It("should move the profile next to itself with a timestamp suffix", func() {
			before := time.Now().Unix()
			code, child := run(10, 0)
			Expect(code).To(Equal(0))

			matches, err := filepath.Glob(profileDir + ".*")
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(1))
			Expect(filepath.Join(matches[0], "db.sqlite")).To(BeARegularFile())
			Expect(filepath.Base(matches[0]) >= filepath.Base(profileDir)+"."+strconv.FormatInt(before, 10)).To(BeTrue())

			states, err := child.ProfileStates()
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(Equal([]string{"present", "absent"}))
		})
	})

	Describe("restart", func() {
		It("should relaunch without touching the profile", func() {
			code, child := run(8, 8, 0)
			Expect(code).To(Equal(0))
			Expect(profileDir).To(BeADirectory())

			invocations, err := child.Invocations()
			Expect(err).NotTo(HaveOccurred())
			Expect(invocations).To(HaveLen(3))
		})
	})

	Describe("other exit codes", func() {
		It("should pass unknown codes through", func() {
			code, _ := run(42)
			Expect(code).To(Equal(42))
			Expect(profileDir).To(BeADirectory())
		})

		It("should fail when the update cannot be installed", func() {
			code, child := run(11)
			Expect(code).To(Equal(domain.ExitCodeLauncherError))

			invocations, err := child.Invocations()
			Expect(err).NotTo(HaveOccurred())
			Expect(invocations).To(HaveLen(1))
		})
	})
})
