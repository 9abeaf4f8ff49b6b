package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestAuthService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	now := time.Now()
	userID := 42
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, sessionValue(userID, now), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, err := authService.Login(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(time.Hour, db)

	token := "test_token"
	sessionKey := sessionKeyPrefix + token
	mock.ExpectGet(sessionKey).SetVal(sessionValue(42, time.Now()))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, token).SetVal(1)

	loggedOut, err := authService.Logout(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, loggedOut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(ttl, rdb)
	require.NotNil(t, authService)

	t1, t2 := "token1", "token2"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(sessionValue(1, then))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(sessionValue(2, now))
	// expect deleted only t1, expired
	mock.ExpectDel(sessionKeyPrefix + t1).SetVal(1)
	mock.ExpectSRem(tokensSetKey, t1).SetVal(1)

	authService.ScanAndClean(context.Background())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseSessionValue(t *testing.T) {
	now := time.Now()

	userID, createdAt, err := parseSessionValue(sessionValue(13, now))
	require.NoError(t, err)
	assert.Equal(t, 13, userID)
	assert.Equal(t, now.Unix(), createdAt.Unix())

	_, _, err = parseSessionValue("garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, _, err = parseSessionValue("abc|123")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, _, err = parseSessionValue("12|abc")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
