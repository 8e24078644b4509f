package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/creditscope/creditscope/pkg/campus"
	"github.com/creditscope/creditscope/pkg/credits"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patchFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addPatchFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestPatchFromFlagsOnlyChangedFields(t *testing.T) {
	p, err := patchFromFlags(patchFlags(t, "--state", "passed", "--grade", "5.5", "--semester", "hs24"))
	require.NoError(t, err)

	assert.Equal(t, module.Passed, p.State.Value)
	assert.Equal(t, "5.5", *p.Grade.Value)
	assert.Equal(t, semester.MustParse("HS24"), p.Semester.Value)
	assert.False(t, p.ECTS.Set)
	assert.False(t, p.ShortName.Set)
	assert.False(t, p.Type.Set)
}

func TestPatchFromFlagsClear(t *testing.T) {
	p, err := patchFromFlags(patchFlags(t, "--clear-ects", "--clear-grade", "--type", "Core"))
	require.NoError(t, err)

	assert.True(t, p.ECTS.Set)
	assert.Nil(t, p.ECTS.Value)
	assert.True(t, p.Grade.Set)
	assert.Nil(t, p.Grade.Value)
	assert.Equal(t, module.Core, p.Type.Value)
}

func TestPatchFromFlagsRejects(t *testing.T) {
	for _, args := range [][]string{
		{"--state", "Graduated"},
		{"--type", "Elective"},
		{"--semester", "2024"},
		{"--ects", "-1"},
		{"--ects", "3", "--clear-ects"},
		{"--grade", "4", "--clear-grade"},
	} {
		_, err := patchFromFlags(patchFlags(t, args...))
		assert.Error(t, err, args)
	}

	p, err := patchFromFlags(patchFlags(t))
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

type fakeSource struct {
	modules []module.Module
	info    campus.StudyInfo
	err     error
}

func (f fakeSource) FetchModules(ctx context.Context) ([]module.Module, error) {
	return f.modules, f.err
}

func (f fakeSource) StudyInfo(ctx context.Context) (campus.StudyInfo, error) {
	return f.info, nil
}

func TestFetchLocal(t *testing.T) {
	major := program.BusinessAnalysis
	src := fakeSource{
		modules: []module.Module{{FullID: "I.BA_OOP.H2401", ShortName: "OOP"}},
		info:    campus.StudyInfo{Program: program.Economics, Major: &major, PartTime: true},
	}

	data, err := fetchLocal(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, data.Modules, 1)
	assert.Equal(t, program.Economics, data.Program)
	assert.Equal(t, &major, data.Major)
	assert.True(t, data.PartTime)
	assert.False(t, data.FetchedAt.IsZero())

	_, err = fetchLocal(context.Background(), fakeSource{err: campus.ErrUnauthorized})
	assert.True(t, errors.Is(err, campus.ErrUnauthorized))
}

func TestMissingCredits(t *testing.T) {
	req := 24.0
	assert.Equal(t, "-", missingCredits(credits.Row{Required: nil, Actual: 3}))
	assert.Equal(t, "-", missingCredits(credits.Row{Required: &req, Actual: 30}))
	assert.Equal(t, "19.5", missingCredits(credits.Row{Required: &req, Actual: 4.5}))
}
