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
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	majordomo "github.com/wealdtech/go-majordomo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"
)

// initTracing initialises the tracing system, sending traces over OTLP if a
// tracing address has been configured.
func initTracing(ctx context.Context, majordomo majordomo.Service) error {
	tracingAddress := viper.GetString("tracing.address")
	if tracingAddress == "" {
		return nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(tracingAddress),
	}
	if viper.GetString("tracing.client-cert") != "" {
		certPEMBlock, err := majordomo.Fetch(ctx, viper.GetString("tracing.client-cert"))
		if err != nil {
			return errors.Wrap(err, "failed to obtain tracing client certificate")
		}
		keyPEMBlock, err := majordomo.Fetch(ctx, viper.GetString("tracing.client-key"))
		if err != nil {
			return errors.Wrap(err, "failed to obtain tracing client key")
		}
		clientCert, err := tls.X509KeyPair(certPEMBlock, keyPEMBlock)
		if err != nil {
			return errors.Wrap(err, "invalid tracing client certificate/key")
		}
		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{clientCert},
			MinVersion:   tls.VersionTLS13,
		}
		if viper.GetString("tracing.ca-cert") != "" {
			caPEMBlock, err := majordomo.Fetch(ctx, viper.GetString("tracing.ca-cert"))
			if err != nil {
				return errors.Wrap(err, "failed to obtain tracing CA certificate")
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caPEMBlock) {
				return errors.New("invalid tracing CA certificate")
			}
			tlsCfg.RootCAs = pool
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	} else {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create tracing exporter")
	}

	tracingResource, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName("handout"),
			semconv.ServiceVersion(ReleaseVersion),
		))
	if err != nil {
		return errors.Wrap(err, "failed to create tracing resource")
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(tracingResource),
	)
	otel.SetTracerProvider(tracerProvider)

	go func() {
		<-ctx.Done()
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down tracing")
		}
	}()

	return nil
}
