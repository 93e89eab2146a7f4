package service

// Column aliases per sheet section, in priority order. The fuzzy resolver normalizes both
// sides, so casing, accents and punctuation do not need their own entries.
var (
	aliasUserLogin    = []string{"login", "usuario", "user", "email"}
	aliasUserPassword = []string{"senha", "password", "pass"}
	aliasUserRole     = []string{"nivel", "perfil", "role", "cargo"}
	aliasUserName     = []string{"nome", "name", "nomecompleto"}

	aliasClassName       = []string{"nome", "turma", "curso", "modalidade"}
	aliasClassUnit       = []string{"unidade", "unit", "escola"}
	aliasClassSchedule   = []string{"horario", "horarios", "schedule", "dias"}
	aliasClassInstructor = []string{"professor", "instrutor", "teacher"}
	aliasClassCapacity   = []string{"capacidade", "vagas", "capacity"}
	aliasClassPrice      = []string{"valormensal", "valor", "mensalidade", "preco"}

	aliasStudentName       = []string{"nome", "aluno", "nomedoaluno", "estudante"}
	aliasStudentBirth      = []string{"datanascimento", "nascimento", "datadenascimento", "dn"}
	aliasStudentStage      = []string{"segmento", "etapa", "ensino", "nivelensino"}
	aliasStudentGrade      = []string{"serie", "ano", "anoserie", "grade"}
	aliasStudentClass      = []string{"turmaescolar", "turmaescola", "classe"}
	aliasStudentEmail      = []string{"email", "emailresponsavel"}
	aliasGuardian1         = []string{"responsavel", "responsavel1", "nomeresponsavel", "mae"}
	aliasGuardian1Phone    = []string{"telefone", "telefone1", "whatsapp", "celular", "telefoneresponsavel"}
	aliasGuardian2         = []string{"responsavel2", "segundoresponsavel", "pai"}
	aliasGuardian2Phone    = []string{"telefone2", "celular2", "whatsapp2"}
	aliasStudentUnit       = []string{"unidade", "escola", "unit"}
	aliasStudentStatus     = []string{"status", "ativo", "situacao", "matriculado"}
	aliasStudentCourse     = []string{"modalidade", "curso", "turma", "atividade"}
	aliasEnrollmentDate    = []string{"datamatricula", "matricula", "datadematricula", "inicio"}
	aliasCancellationDate  = []string{"datacancelamento", "cancelamento", "datadecancelamento", "saida"}
	forbiddenStudentCourse = []string{"cursocancelado", "cancelado"}

	aliasAttendanceStudent = []string{"aluno", "nome", "estudante"}
	aliasAttendanceClass   = []string{"turma", "curso", "modalidade"}
	aliasAttendanceUnit    = []string{"unidade", "escola"}
	aliasAttendanceDate    = []string{"data", "dia", "date"}
	aliasAttendanceStatus  = []string{"status", "presenca", "situacao"}
	aliasAttendanceNote    = []string{"observacao", "obs", "nota"}
	aliasAttendanceAlarm   = []string{"alarme", "alarmeenviado", "alertaenviado"}
	aliasAttendanceSentAt  = []string{"timestamp", "registradoem", "enviadoem", "carimbodedatahora"}

	aliasTrialStudent   = []string{"aluno", "nome", "nomedoaluno", "crianca"}
	aliasTrialGrade     = []string{"serie", "ano", "turmaescolar"}
	aliasTrialCourse    = []string{"modalidade", "curso", "aula", "turma"}
	aliasTrialUnit      = []string{"unidade", "escola"}
	aliasTrialDate      = []string{"dataaula", "data", "dataexperimental", "agendamento"}
	aliasTrialGuardian  = []string{"responsavel", "nomeresponsavel", "mae"}
	aliasTrialPhone     = []string{"telefone", "whatsapp", "celular", "contato"}
	aliasTrialStatus    = []string{"status", "presenca", "situacao"}
	aliasTrialFollowUp  = []string{"followup", "followupenviado", "retorno"}
	aliasTrialReminder  = []string{"lembrete", "lembreteenviado", "reminder"}
	aliasTrialConverted = []string{"matriculou", "convertido", "fechou"}
	aliasTrialNote      = []string{"observacao", "obs"}
	aliasTrialID        = []string{"id", "codigo"}
)
