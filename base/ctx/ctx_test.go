package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	ctx := WithValue(bg, "txId", "abc")
	ts.Equal("abc", ctx.Value("txId"))
	ts.Nil(bg.Value("txId"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	ctx := WithValues(bg, map[string]interface{}{
		"contract": "0x01",
		"item":     "7",
	})
	ts.Equal("0x01", ctx.Value("contract"))
	ts.Equal("7", ctx.Value("item"))
}

func (ts *testsuite) TestFrom() {
	parent := WithValue(Background(), "requestID", "r1")
	ts.Equal("r1", From(parent).Value("requestID"))

	plain := context.WithValue(context.Background(), "k", "v")
	ts.Equal("v", From(plain).Value("k"))
}

func (ts *testsuite) TestWithCancel() {
	ctx, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		ts.Fail("context not cancelled")
	}
}

func (ts *testsuite) TestTimeout() {
	ctx, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	<-ctx.Done()
	ts.Equal(context.DeadlineExceeded, ctx.Err())
}

func (ts *testsuite) TestDetach() {
	parent, cancel := WithCancel(WithValue(Background(), "requestID", "r1"))
	cancel()

	detached := Detach(parent)
	ts.NoError(detached.Err())
	ts.Nil(detached.Value("requestID"))
	ts.Equal(parent.Logger, detached.Logger)
}
