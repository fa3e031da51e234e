package middleware

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/base/log"
	"github.com/x-xyz/listings/service/cache"
)

const (
	HeaderXCache = "X-Cache"

	cacheHit  = "HIT"
	cacheMiss = "MISS"
	cacheSkip = "SKIP"
)

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// recorder tees the body written by the handler so it can be cached afterwards
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recorder) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// cacheKey is stable under reordering of query params and of repeated values
func cacheKey(u *url.URL) string {
	params := u.Query()
	for _, vs := range params {
		sort.Strings(vs)
	}
	hash := fnv.New64a()
	io.WriteString(hash, u.Path)
	io.WriteString(hash, "?")
	io.WriteString(hash, params.Encode())
	return strconv.FormatUint(hash.Sum64(), 36)
}

// CacheHttp serves repeated GETs of the same url from cacheService until its ttl runs out.
// Authenticated requests and non GET methods always reach the handler.
func CacheHttp(cacheService cache.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Get("ctx").(ctx.Ctx)
			req := c.Request()

			if req.Method != http.MethodGet || req.Header.Get(echo.HeaderAuthorization) != "" {
				c.Response().Header().Set(HeaderXCache, cacheSkip)
				return next(c)
			}

			key := cacheKey(req.URL)
			hit := cachedResponse{}
			if err := cacheService.Get(ctx, key, &hit); err == nil {
				header := c.Response().Header()
				for k, vs := range hit.Header {
					header[k] = vs
				}
				header.Set(HeaderXCache, cacheHit)
				c.Response().WriteHeader(hit.Status)
				_, err := c.Response().Write(hit.Body)
				return err
			} else if err != cache.ErrNotFound {
				ctx.WithField("err", err).Error("cacheService.Get failed")
			}

			c.Response().Header().Set(HeaderXCache, cacheMiss)
			rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			if rec.status != http.StatusOK {
				return nil
			}
			header := rec.Header().Clone()
			header.Del(HeaderXCache)
			header.Del(echo.HeaderXRequestID)
			if err := cacheService.Set(ctx, key, cachedResponse{
				Status: rec.status,
				Header: header,
				Body:   rec.body.Bytes(),
			}); err != nil {
				ctx.WithFields(log.Fields{"err": err, "path": req.URL.Path}).Error("cacheService.Set failed")
			}
			return nil
		}
	}
}
