package bot

import (
	"testing"
)

func TestParseVoteArgs(t *testing.T) {
	tests := []struct {
		name    string
		opts    []*commandOption
		want    voteArgs
		wantErr bool
	}{
		{
			name: "正常参数",
			opts: []*commandOption{strOpt("character", "Alice"), intOpt("points", 30)},
			want: voteArgs{Character: "Alice", Points: 30},
		},
		{
			name: "角色名去除空白",
			opts: []*commandOption{strOpt("character", "  Alice  "), intOpt("points", 1)},
			want: voteArgs{Character: "Alice", Points: 1},
		},
		{
			name:    "缺少character",
			opts:    []*commandOption{intOpt("points", 30)},
			wantErr: true,
		},
		{
			name:    "缺少points",
			opts:    []*commandOption{strOpt("character", "Alice")},
			wantErr: true,
		},
		{
			name:    "空角色名",
			opts:    []*commandOption{strOpt("character", "   "), intOpt("points", 30)},
			wantErr: true,
		},
		{
			name:    "非正点数",
			opts:    []*commandOption{strOpt("character", "Alice"), intOpt("points", 0)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVoteArgs(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望解析失败")
				}
				return
			}
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("结果 = %+v, 期望 %+v", got, tt.want)
			}
		})
	}
}

func TestParseAdjustArgs(t *testing.T) {
	tests := []struct {
		name    string
		opts    []*commandOption
		want    adjustArgs
		wantErr bool
	}{
		{
			name: "用户目标",
			opts: []*commandOption{intOpt("points", 10), userOpt("user", "u1")},
			want: adjustArgs{UserID: "u1", Points: 10},
		},
		{
			name: "身份组目标",
			opts: []*commandOption{intOpt("points", 10), roleOpt("role", "r1")},
			want: adjustArgs{RoleID: "r1", Points: 10},
		},
		{
			name:    "没有目标",
			opts:    []*commandOption{intOpt("points", 10)},
			wantErr: true,
		},
		{
			name:    "两个目标",
			opts:    []*commandOption{intOpt("points", 10), userOpt("user", "u1"), roleOpt("role", "r1")},
			wantErr: true,
		},
		{
			name:    "缺少points",
			opts:    []*commandOption{userOpt("user", "u1")},
			wantErr: true,
		},
		{
			name:    "非正点数",
			opts:    []*commandOption{intOpt("points", -3), userOpt("user", "u1")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAdjustArgs(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望解析失败")
				}
				return
			}
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("结果 = %+v, 期望 %+v", got, tt.want)
			}
		})
	}
}

func TestParseUserAdjustArgs(t *testing.T) {
	got, err := parseUserAdjustArgs([]*commandOption{userOpt("user", "u1"), intOpt("points", 5)})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got.UserID != "u1" || got.Points != 5 {
		t.Errorf("结果 = %+v", got)
	}

	if _, err := parseUserAdjustArgs([]*commandOption{intOpt("points", 5)}); err == nil {
		t.Error("缺少user时应当失败")
	}
}

func TestParseRosterArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"普通名单", "Alice,Bob,Carol", []string{"Alice", "Bob", "Carol"}, false},
		{"带空白", " Alice , Bob ", []string{"Alice", "Bob"}, false},
		{"跳过空项", "Alice,,Bob,", []string{"Alice", "Bob"}, false},
		{"单个角色", "Alice", []string{"Alice"}, false},
		{"全部为空", " , , ", nil, true},
		{"空字符串", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRosterArgs([]*commandOption{strOpt("characters", tt.input)})
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望解析失败")
				}
				return
			}
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if len(got.Names) != len(tt.want) {
				t.Fatalf("名单长度 = %d, 期望 %d", len(got.Names), len(tt.want))
			}
			for i := range tt.want {
				if got.Names[i] != tt.want[i] {
					t.Errorf("名单[%d] = %q, 期望 %q", i, got.Names[i], tt.want[i])
				}
			}
		})
	}
}
