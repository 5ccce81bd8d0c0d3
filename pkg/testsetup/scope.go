// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"context"
	"testing"

	"github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
)

var testLogger = func() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}()

// NewTestScope returns a root scope that logs warnings and errors only.
func NewTestScope() *envelope.Scope {
	scope := envelope.NewRootScope(context.Background(), "test", "")
	scope.SetLogger(testLogger)
	return scope
}

type GomegaWithScope struct {
	TestScope *envelope.Scope
	*gomega.GomegaWithT
}

// ParallelWithGomega marks t parallel and returns a gomega bound to t plus a fresh scope.
func ParallelWithGomega(t *testing.T) GomegaWithScope {
	t.Parallel()
	return GomegaWithScope{NewTestScope(), gomega.NewGomegaWithT(t)}
}
