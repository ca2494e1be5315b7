// Copyright © 2025 The Bushido Collective.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	// #nosec G108
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/hanguru/handout/cmd"
	"github.com/hanguru/handout/core"
	restapi "github.com/hanguru/handout/services/api/rest"
	"github.com/hanguru/handout/services/issuer/selfsigned"
	"github.com/hanguru/handout/services/journal"
	badgerjournal "github.com/hanguru/handout/services/journal/badger"
	"github.com/hanguru/handout/services/metrics"
	prometheusmetrics "github.com/hanguru/handout/services/metrics/prometheus"
	filesystemprovider "github.com/hanguru/handout/services/provider/filesystem"
	certbotrenewer "github.com/hanguru/handout/services/renewer/certbot"
	"github.com/hanguru/handout/util"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	zerologger "github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	majordomo "github.com/wealdtech/go-majordomo"
)

// ReleaseVersion is the release version for the code.
var ReleaseVersion = "0.3.1"

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	if err := fetchConfig(); err != nil {
		zerologger.Fatal().Err(err).Msg("Failed to fetch configuration")
	}

	majordomo, err := util.InitMajordomo(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise majordomo")
	}

	// runCommands will not return if a command is run.
	exit, exitCode := runCommands(ctx, majordomo)
	if exit {
		os.Exit(exitCode)
	}

	if err := initLogging(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logging")
	}

	logModules()
	log.Info().Str("version", ReleaseVersion).Msg("Starting handout")

	if err := initProfiling(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise profiling")
	}

	if err := initTracing(ctx, majordomo); err != nil {
		log.Error().Err(err).Msg("Failed to initialise tracing")
		return
	}

	monitor, err := startMonitor(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start metrics service")
		return
	}
	if err := registerMetrics(ctx, monitor); err != nil {
		log.Error().Err(err).Msg("Failed to register metrics")
		return
	}
	setRelease(ctx, ReleaseVersion)
	setReady(ctx, false)

	err = startServices(ctx, majordomo, monitor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialise services")
		return
	}
	setReady(ctx, true)

	log.Info().Msg("All services operational")

	// Wait for signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh
		if sig == syscall.SIGINT || sig == syscall.SIGTERM || sig == os.Interrupt || sig == os.Kill {
			cancel()
			break
		}
	}

	log.Info().Msg("Stopping handout")
	setReady(ctx, false)

	// Give services a chance to stop cleanly before we exit.
	time.Sleep(2 * time.Second)
}

// fetchConfig fetches configuration from various sources.
func fetchConfig() error {
	pflag.String("base-dir", "", "base directory for configuration files")
	pflag.String("log-level", "info", "minimum level of messsages to log")
	pflag.String("log-file", "", "redirect log output to a file")
	pflag.String("profile-address", "", "Address on which to run Go profile server")
	pflag.Bool("show-certificate", false, "show the served certificate and exit")
	pflag.Bool("renew", false, "attempt a certificate renewal and exit")
	pflag.Bool("version", false, "show handout version and exit")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return errors.Wrap(err, "failed to bind pflags to viper")
	}

	if viper.GetString("base-dir") != "" {
		// User-defined base directory.
		viper.AddConfigPath(viper.GetString("base-dir"))
		viper.SetConfigName("handout")
	} else {
		// Home directory.
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to obtain home directory")
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".handout")
	}

	// Environment settings.
	viper.SetEnvPrefix("HANDOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	// The port is commonly supplied as a bare environment variable.
	if err := viper.BindEnv("port", "HANDOUT_PORT", "PORT"); err != nil {
		return errors.Wrap(err, "failed to bind port environment variable")
	}

	// Defaults.
	viper.SetDefault("port", 3000)
	viper.SetDefault("domain", "coordinator.local.han.guru")
	viper.SetDefault("storage-path", "storage")
	viper.SetDefault("provider.expiry-hint", 90*24*time.Hour)
	viper.SetDefault("issuer.enabled", true)
	viper.SetDefault("renewer.interval", 12*time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		switch {
		case errors.As(err, &viper.ConfigFileNotFoundError{}):
			// Running purely from environment variables and defaults is fine.
		case errors.As(err, &viper.ConfigParseError{}):
			return errors.Wrap(err, "could not parse the configuration file")
		default:
			return errors.Wrap(err, "failed to obtain configuration")
		}
	}

	return nil
}

// initProfiling initialises the profiling server.
//
//nolint:unparam
func initProfiling() error {
	profileAddress := viper.GetString("profile-address")
	if profileAddress != "" {
		go func() {
			log.Info().Str("profile_address", profileAddress).Msg("Starting profile server")
			server := &http.Server{
				Addr:              profileAddress,
				ReadHeaderTimeout: 5 * time.Second,
			}
			runtime.SetMutexProfileFraction(1)
			if err := server.ListenAndServe(); err != nil {
				log.Warn().Str("profile_address", profileAddress).Err(err).Msg("Failed to run profile server")
			}
		}()
	}
	return nil
}

func runCommands(ctx context.Context, majordomo majordomo.Service) (bool, int) {
	if viper.GetBool("version") {
		fmt.Printf("%s\n", ReleaseVersion)
		return true, 0
	}

	if viper.GetBool("show-certificate") {
		certURI, keyURI := certificateURIs()
		err := cmd.ShowCertificate(ctx, majordomo, certURI, keyURI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "show-certificate failed: %v\n", err)
			return true, 1
		}
		return true, 0
	}

	if viper.GetBool("renew") {
		return true, runRenewal(ctx)
	}

	// No command run so no need to exit.
	return false, 0
}

// runRenewal attempts a single renewal and reports the outcome.
func runRenewal(ctx context.Context) int {
	renewer, err := newRenewer(ctx, nil, 0, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renew failed: %v\n", err)
		return 1
	}
	record := renewer.Renew(ctx)
	fmt.Fprintf(os.Stdout, "Renewal %s\n", record.Result)
	if record.Output != "" {
		fmt.Fprintf(os.Stdout, "%s\n", record.Output)
	}
	if record.Result != core.ResultSucceeded.String() {
		return 1
	}
	return 0
}

// certificateURIs provides the URIs from which certificate material is obtained.
// If not explicitly configured the conventional certbot live paths for the
// domain are used.
func certificateURIs() (string, string) {
	domain := viper.GetString("domain")
	certURI := viper.GetString("provider.cert-uri")
	if certURI == "" {
		certURI = fmt.Sprintf("file:///etc/letsencrypt/live/%s/fullchain.pem", domain)
	}
	keyURI := viper.GetString("provider.key-uri")
	if keyURI == "" {
		keyURI = fmt.Sprintf("file:///etc/letsencrypt/live/%s/privkey.pem", domain)
	}
	return certURI, keyURI
}

func startServices(ctx context.Context, majordomo majordomo.Service, monitor metrics.Service) error {
	certURI, keyURI := certificateURIs()

	// Ensure certificate material exists before anything tries to serve it.
	if viper.GetBool("issuer.enabled") {
		if err := ensureCertificates(ctx, monitor, certURI, keyURI); err != nil {
			return errors.Wrap(err, "failed to ensure certificate material")
		}
	}

	journal, err := startJournal(ctx, monitor)
	if err != nil {
		return errors.Wrap(err, "failed to start journal")
	}

	if _, err := newRenewer(ctx, monitor, viper.GetDuration("renewer.interval"), journal); err != nil {
		return errors.Wrap(err, "failed to create renewer service")
	}

	// Set up the provider.
	var providerMonitor metrics.ProviderMonitor
	if monitor, isMonitor := monitor.(metrics.ProviderMonitor); isMonitor {
		providerMonitor = monitor
	}
	provider, err := filesystemprovider.New(ctx,
		filesystemprovider.WithLogLevel(util.LogLevel("provider")),
		filesystemprovider.WithMonitor(providerMonitor),
		filesystemprovider.WithMajordomo(majordomo),
		filesystemprovider.WithCertURI(certURI),
		filesystemprovider.WithKeyURI(keyURI),
		filesystemprovider.WithDomain(viper.GetString("domain")),
		filesystemprovider.WithExpiryHint(viper.GetDuration("provider.expiry-hint")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create provider service")
	}

	// Initialise the API service.
	var apiMonitor metrics.APIMonitor
	if monitor, isMonitor := monitor.(metrics.APIMonitor); isMonitor {
		apiMonitor = monitor
	}
	listenAddress := viper.GetString("server.listen-address")
	if listenAddress == "" {
		listenAddress = fmt.Sprintf(":%d", viper.GetInt("port"))
	}
	_, err = restapi.New(ctx,
		restapi.WithLogLevel(util.LogLevel("api")),
		restapi.WithMonitor(apiMonitor),
		restapi.WithProvider(provider),
		restapi.WithJournal(journal),
		restapi.WithListenAddress(listenAddress),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create API service")
	}

	return nil
}

// ensureCertificates issues self-signed certificate material if none exists,
// so that there is something to serve before the first real renewal.  Only
// file-based material can be issued.
func ensureCertificates(ctx context.Context, monitor metrics.Service, certURI string, keyURI string) error {
	if !strings.HasPrefix(certURI, "file://") || !strings.HasPrefix(keyURI, "file://") {
		log.Debug().Msg("Certificate material is not file-based; not issuing")
		return nil
	}

	var issuerMonitor metrics.IssuerMonitor
	if monitor, isMonitor := monitor.(metrics.IssuerMonitor); isMonitor {
		issuerMonitor = monitor
	}
	issuer, err := selfsigned.New(ctx,
		selfsigned.WithLogLevel(util.LogLevel("issuer")),
		selfsigned.WithMonitor(issuerMonitor),
		selfsigned.WithDomain(viper.GetString("domain")),
		selfsigned.WithCertPath(strings.TrimPrefix(certURI, "file://")),
		selfsigned.WithKeyPath(strings.TrimPrefix(keyURI, "file://")),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create issuer service")
	}

	issued, err := issuer.EnsureBundle(ctx)
	if err != nil {
		// Not fatal; the server runs and reports the material as missing.
		log.Warn().Err(err).Msg("Could not ensure certificate material")
		return nil
	}
	if issued {
		log.Info().Str("domain", viper.GetString("domain")).Msg("Issued self-signed certificate material")
	}
	return nil
}

func startJournal(ctx context.Context, monitor metrics.Service) (journal.Service, error) {
	if viper.GetString("storage-path") == "" {
		log.Debug().Msg("No storage path supplied; renewal journal not starting")
		return nil, nil
	}

	var journalMonitor metrics.JournalMonitor
	if monitor, isMonitor := monitor.(metrics.JournalMonitor); isMonitor {
		journalMonitor = monitor
	}
	journal, err := badgerjournal.New(ctx,
		badgerjournal.WithLogLevel(util.LogLevel("journal")),
		badgerjournal.WithMonitor(journalMonitor),
		badgerjournal.WithStoragePath(util.ResolvePath(viper.GetString("storage-path"))),
	)
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		if err := journal.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to close journal cleanly")
		}
	}()

	return journal, nil
}

// newRenewer creates a renewer service.  An interval of 0 creates the service
// without its periodic loop.
func newRenewer(ctx context.Context, monitor metrics.Service, interval time.Duration, journal journal.Service) (*certbotrenewer.Service, error) {
	var renewerMonitor metrics.RenewerMonitor
	if monitor, isMonitor := monitor.(metrics.RenewerMonitor); isMonitor {
		renewerMonitor = monitor
	}
	params := []certbotrenewer.Parameter{
		certbotrenewer.WithLogLevel(util.LogLevel("renewer")),
		certbotrenewer.WithMonitor(renewerMonitor),
		certbotrenewer.WithJournal(journal),
		certbotrenewer.WithInterval(interval),
	}
	if viper.GetString("renewer.command") != "" {
		params = append(params, certbotrenewer.WithCommand(viper.GetString("renewer.command")))
	}
	if len(viper.GetStringSlice("renewer.args")) > 0 {
		params = append(params, certbotrenewer.WithArgs(viper.GetStringSlice("renewer.args")))
	}
	return certbotrenewer.New(ctx, params...)
}

func startMonitor(ctx context.Context) (metrics.Service, error) {
	log.Trace().Msg("Starting metrics service")
	var monitor metrics.Service
	var err error
	if viper.GetString("metrics.listen-address") == "" {
		log.Debug().Msg("No metrics listen address supplied; monitor not starting")
		return nil, nil
	}
	monitor, err = prometheusmetrics.New(ctx,
		prometheusmetrics.WithLogLevel(util.LogLevel("metrics")),
		prometheusmetrics.WithAddress(viper.GetString("metrics.listen-address")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start metrics service")
	}
	return monitor, nil
}

func logModules() {
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Trace().Str("path", buildInfo.Path).Msg("Main package")
		for _, dep := range buildInfo.Deps {
			log := log.Trace()
			if dep.Replace == nil {
				log = log.Str("path", dep.Path).Str("version", dep.Version)
			} else {
				log = log.Str("path", dep.Replace.Path).Str("version", dep.Replace.Version)
			}
			log.Msg("Dependency")
		}
	}
}
